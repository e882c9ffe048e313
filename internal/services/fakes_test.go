package services

import (
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/ports"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	lists   map[string][]domain.Point
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{lists: map[string][]domain.Point{}}
}

func (s *memoryStore) SaveLast(_ context.Context, session string, waypoints []domain.Point) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[session] = append([]domain.Point(nil), waypoints...)
	return nil
}

func (s *memoryStore) LoadLast(_ context.Context, session string) ([]domain.Point, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lists[session]
	return p, ok, nil
}

// memoryCache implements only ports.ExplanationCache, so the per-key path is exercised.
type memoryCache struct {
	mu      sync.Mutex
	entries map[domain.ExplanationKey]string
	ttls    map[domain.ExplanationKey]time.Duration
	getErr  error
	setErr  error
	gets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries: map[domain.ExplanationKey]string{},
		ttls:    map[domain.ExplanationKey]time.Duration{},
	}
}

func (c *memoryCache) Get(_ context.Context, key domain.ExplanationKey) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", false, c.getErr
	}
	text, ok := c.entries[key]
	return text, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key domain.ExplanationKey, text string, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = text
	c.ttls[key] = ttl
	return nil
}

// batchCache adds GetMany on top of memoryCache.
type batchCache struct {
	*memoryCache
	batches  int
	batchErr error
}

var _ ports.BatchExplanationCache = (*batchCache)(nil)

func (c *batchCache) GetMany(_ context.Context, keys []domain.ExplanationKey) (map[domain.ExplanationKey]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches++
	if c.batchErr != nil {
		return nil, c.batchErr
	}
	out := map[domain.ExplanationKey]string{}
	for _, k := range keys {
		if text, ok := c.entries[k]; ok {
			out[k] = text
		}
	}
	return out, nil
}

// recordingGenerator echoes the movement and tracks call count and peak concurrency.
type recordingGenerator struct {
	delay  time.Duration
	failOn int // step number that fails; 0 disables
	calls  atomic.Int64
	active atomic.Int64
	peak   atomic.Int64
	reqs   sync.Map
}

func (g *recordingGenerator) Explain(ctx context.Context, req ports.ExplanationRequest) (string, error) {
	g.calls.Add(1)
	n := g.active.Add(1)
	defer g.active.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}

	g.reqs.Store(req.Movement.StepNumber, req)

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if g.failOn != 0 && req.Movement.StepNumber == g.failOn {
		return "", errors.New("upstream unavailable")
	}

	return fmt.Sprintf("  %s %s->%s in %d  ", req.Language, req.Movement.From, req.Movement.To, req.Steps), nil
}
