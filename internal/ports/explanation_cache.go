package ports

import (
	"chebyshev-board/internal/domain"
	"context"
	"time"
)

// Keyed get/set storage for generated explanation text with per-key expiry.
type ExplanationCache interface {
	// Return the cached text and whether it was found and not expired.
	Get(ctx context.Context, key domain.ExplanationKey) (string, bool, error)
	// Store text under key; a non-positive ttl stores without expiry.
	Set(ctx context.Context, key domain.ExplanationKey, text string, ttl time.Duration) error
}

// Optional extension of ExplanationCache that supports batched lookups.
type BatchExplanationCache interface {
	ExplanationCache
	// Return cached texts for the keys that are present and not expired.
	GetMany(ctx context.Context, keys []domain.ExplanationKey) (map[domain.ExplanationKey]string, error)
}
