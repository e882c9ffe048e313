package services

import (
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/platform/logging"
	"chebyshev-board/internal/platform/obs"
	"chebyshev-board/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrGenerationFailed wraps every failure of the explanation generator.
var ErrGenerationFailed = errors.New("explanation generation failed")

type ExplainMovementsRequest struct {
	Movements []domain.Movement
	// Normalized language code; it is part of the cache key.
	Language string
	// Expiry of freshly generated explanations; non-positive stores without expiry.
	TTL time.Duration
	// Maximum generator calls in flight; values below 1 mean 1.
	Concurrency int
}

// ExplainMovements returns one explanation per movement, in input order.
//
// Cached texts are reused by (from, to, direction, language). Misses are generated
// concurrently, bounded by req.Concurrency, and written back to the cache.
// Cache failures degrade to misses; a generator failure cancels the remaining
// calls and fails the whole request. cache may be nil.
func ExplainMovements(
	ctx context.Context,
	req ExplainMovementsRequest,
	cache ports.ExplanationCache,
	generator ports.ExplanationGenerator,
) (_ []domain.Explanation, err error) {
	defer obs.Time(ctx, "explanations.Explain")(&err)

	if generator == nil {
		return nil, errors.New("explain movements: generator must be non-nil")
	}

	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		return nil, errors.New("explain movements: language must be non-empty")
	}

	if len(req.Movements) == 0 {
		return []domain.Explanation{}, nil
	}

	for _, m := range req.Movements {
		if err := ValidateMovement(m); err != nil {
			return nil, fmt.Errorf("explain movements: %w", err)
		}
	}

	// Repeated moves share one key and one generator call.
	seen := make(map[domain.ExplanationKey]struct{}, len(req.Movements))
	keys := make([]domain.ExplanationKey, 0, len(req.Movements))
	firstByKey := make(map[domain.ExplanationKey]domain.Movement, len(req.Movements))
	for _, m := range req.Movements {
		k := domain.KeyFor(m, lang)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
		firstByKey[k] = m
	}

	hits := lookupCached(ctx, cache, keys)

	misses := make([]domain.ExplanationKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := hits[k]; !ok {
			misses = append(misses, k)
		}
	}

	fresh, err := generateMissing(ctx, req, misses, firstByKey, generator)
	if err != nil {
		return nil, fmt.Errorf("explain movements: %w", err)
	}

	if cache != nil {
		log := logging.WithComponent("services")
		for _, k := range misses {
			if err := cache.Set(ctx, k, fresh[k], req.TTL); err != nil {
				log.WarnContext(ctx, "explanation cache write failed", "key", k.String(), "err", err)
			}
		}
	}

	out := make([]domain.Explanation, 0, len(req.Movements))
	for _, m := range req.Movements {
		k := domain.KeyFor(m, lang)
		text, cached := hits[k]
		if !cached {
			text = fresh[k]
		}
		out = append(out, domain.Explanation{
			Movement: m,
			Language: lang,
			Text:     text,
			Cached:   cached,
		})
	}

	return out, nil
}

// lookupCached returns the cached texts for keys, preferring a batched lookup.
// Errors are logged and treated as misses.
func lookupCached(
	ctx context.Context,
	cache ports.ExplanationCache,
	keys []domain.ExplanationKey,
) map[domain.ExplanationKey]string {
	hits := make(map[domain.ExplanationKey]string, len(keys))
	if cache == nil {
		return hits
	}

	log := logging.WithComponent("services")

	if bc, ok := cache.(ports.BatchExplanationCache); ok {
		found, err := bc.GetMany(ctx, keys)
		if err != nil {
			log.WarnContext(ctx, "explanation cache batch read failed", "keys", len(keys), "err", err)
			return hits
		}
		for k, v := range found {
			hits[k] = v
		}
		return hits
	}

	for _, k := range keys {
		text, ok, err := cache.Get(ctx, k)
		if err != nil {
			log.WarnContext(ctx, "explanation cache read failed", "key", k.String(), "err", err)
			continue
		}
		if ok {
			hits[k] = text
		}
	}

	return hits
}

func generateMissing(
	ctx context.Context,
	req ExplainMovementsRequest,
	misses []domain.ExplanationKey,
	firstByKey map[domain.ExplanationKey]domain.Movement,
	generator ports.ExplanationGenerator,
) (map[domain.ExplanationKey]string, error) {
	fresh := make(map[domain.ExplanationKey]string, len(misses))
	if len(misses) == 0 {
		return fresh, nil
	}

	limit := req.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	for _, k := range misses {
		m := firstByKey[k]
		g.Go(func() error {
			text, err := generator.Explain(gctx, ports.ExplanationRequest{
				Movement: m,
				Language: k.Language,
				Steps:    ChebyshevDistance(m.From, m.To),
			})
			if err != nil {
				return fmt.Errorf("%w: step %d %s -> %s: %w", ErrGenerationFailed, m.StepNumber, m.From, m.To, err)
			}

			text = strings.TrimSpace(text)
			if text == "" {
				return fmt.Errorf("%w: step %d %s -> %s: empty explanation", ErrGenerationFailed, m.StepNumber, m.From, m.To)
			}

			mu.Lock()
			fresh[k] = text
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fresh, nil
}
