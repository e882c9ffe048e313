package ports

import (
	"chebyshev-board/internal/domain"
	"context"
)

// Input of a single text-generation call.
type ExplanationRequest struct {
	Movement domain.Movement
	Language string
	// Minimum number of single-cell moves between Movement.From and Movement.To.
	Steps int
}

// Contract for producing a short natural-language justification of one movement.
type ExplanationGenerator interface {
	// Return the explanation text for the movement in the requested language.
	Explain(ctx context.Context, req ExplanationRequest) (string, error)
}
