package services

import (
	"chebyshev-board/internal/adapters/llm"
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/i18n"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decompose(t *testing.T, coords ...int) []domain.Movement {
	t.Helper()
	movements, err := DecomposeMovements(pts(coords...))
	require.NoError(t, err)
	return movements
}

func TestExplainMovements(t *testing.T) {
	gen := &recordingGenerator{}

	got, err := ExplainMovements(context.Background(), ExplainMovementsRequest{
		Movements: decompose(t, 0, 0, 1, 2, 3, 1),
		Language:  "en",
	}, nil, gen)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "en (0,0)->(1,2) in 2", got[0].Text)
	assert.Equal(t, "en (1,2)->(3,1) in 2", got[1].Text)
	for i, e := range got {
		assert.Equal(t, i+1, e.Movement.StepNumber)
		assert.Equal(t, "en", e.Language)
		assert.False(t, e.Cached)
	}
	assert.EqualValues(t, 2, gen.calls.Load())
}

func TestExplainMovementsUsesCache(t *testing.T) {
	ctx := context.Background()
	movements := decompose(t, 0, 0, 1, 2, 3, 1)

	cache := newMemoryCache()
	cache.entries[domain.KeyFor(movements[0], "en")] = "cached text"
	gen := &recordingGenerator{}

	got, err := ExplainMovements(ctx, ExplainMovementsRequest{
		Movements: movements,
		Language:  "en",
		TTL:       time.Hour,
	}, cache, gen)
	require.NoError(t, err)

	assert.Equal(t, "cached text", got[0].Text)
	assert.True(t, got[0].Cached)
	assert.False(t, got[1].Cached)
	assert.EqualValues(t, 1, gen.calls.Load())

	missKey := domain.KeyFor(movements[1], "en")
	assert.Equal(t, "en (1,2)->(3,1) in 2", cache.entries[missKey])
	assert.Equal(t, time.Hour, cache.ttls[missKey])

	// second round is served entirely from cache
	got, err = ExplainMovements(ctx, ExplainMovementsRequest{Movements: movements, Language: "en"}, cache, gen)
	require.NoError(t, err)
	assert.True(t, got[0].Cached)
	assert.True(t, got[1].Cached)
	assert.EqualValues(t, 1, gen.calls.Load())
}

func TestExplainMovementsLanguageIsPartOfKey(t *testing.T) {
	ctx := context.Background()
	movements := decompose(t, 0, 0, 2, 2)
	cache := newMemoryCache()
	gen := &recordingGenerator{}

	_, err := ExplainMovements(ctx, ExplainMovementsRequest{Movements: movements, Language: "en"}, cache, gen)
	require.NoError(t, err)

	got, err := ExplainMovements(ctx, ExplainMovementsRequest{Movements: movements, Language: "es"}, cache, gen)
	require.NoError(t, err)
	assert.False(t, got[0].Cached)
	assert.Equal(t, "es (0,0)->(2,2) in 2", got[0].Text)
	assert.EqualValues(t, 2, gen.calls.Load())
}

func TestExplainMovementsDeduplicates(t *testing.T) {
	// (0,0)->(1,1) appears twice
	movements := decompose(t, 0, 0, 1, 1, 0, 0, 1, 1)
	gen := &recordingGenerator{}

	got, err := ExplainMovements(context.Background(), ExplainMovementsRequest{
		Movements:   movements,
		Language:    "en",
		Concurrency: 4,
	}, nil, gen)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.EqualValues(t, 2, gen.calls.Load())
	assert.Equal(t, got[0].Text, got[2].Text)
	assert.Equal(t, 3, got[2].Movement.StepNumber)
}

func TestExplainMovementsPrefersBatchLookup(t *testing.T) {
	movements := decompose(t, 0, 0, 1, 2, 3, 1)
	cache := &batchCache{memoryCache: newMemoryCache()}
	cache.entries[domain.KeyFor(movements[1], "en")] = "from batch"

	got, err := ExplainMovements(context.Background(), ExplainMovementsRequest{
		Movements: movements,
		Language:  "en",
	}, cache, &recordingGenerator{})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.batches)
	assert.Zero(t, cache.gets)
	assert.Equal(t, "from batch", got[1].Text)
	assert.True(t, got[1].Cached)
}

func TestExplainMovementsCacheFailuresDegrade(t *testing.T) {
	movements := decompose(t, 0, 0, 1, 2, 3, 1)

	t.Run("per-key read", func(t *testing.T) {
		cache := newMemoryCache()
		cache.getErr = errors.New("connection refused")
		cache.setErr = errors.New("connection refused")

		got, err := ExplainMovements(context.Background(), ExplainMovementsRequest{
			Movements: movements,
			Language:  "en",
		}, cache, &recordingGenerator{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.False(t, got[0].Cached)
	})

	t.Run("batch read", func(t *testing.T) {
		cache := &batchCache{memoryCache: newMemoryCache(), batchErr: errors.New("timeout")}
		gen := &recordingGenerator{}

		got, err := ExplainMovements(context.Background(), ExplainMovementsRequest{
			Movements: movements,
			Language:  "en",
		}, cache, gen)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.EqualValues(t, 2, gen.calls.Load())
		assert.Len(t, cache.entries, 2)
	})
}

func TestExplainMovementsConcurrencyLimit(t *testing.T) {
	movements := decompose(t, 0, 0, 1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 6, 0, 7, 0, 8, 0)

	for _, tc := range []struct {
		limit int
		want  int64
	}{
		{limit: 0, want: 1},
		{limit: 1, want: 1},
		{limit: 3, want: 3},
	} {
		gen := &recordingGenerator{delay: 20 * time.Millisecond}

		_, err := ExplainMovements(context.Background(), ExplainMovementsRequest{
			Movements:   movements,
			Language:    "en",
			Concurrency: tc.limit,
		}, nil, gen)
		require.NoError(t, err)

		assert.EqualValues(t, len(movements), gen.calls.Load())
		assert.LessOrEqual(t, gen.peak.Load(), tc.want, "limit %d", tc.limit)
	}
}

func TestExplainMovementsGeneratorError(t *testing.T) {
	cache := newMemoryCache()
	gen := &recordingGenerator{failOn: 2}

	_, err := ExplainMovements(context.Background(), ExplainMovementsRequest{
		Movements:   decompose(t, 0, 0, 1, 2, 3, 1, 4, 4),
		Language:    "en",
		Concurrency: 1,
	}, cache, gen)
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "upstream unavailable")
	assert.Empty(t, cache.entries, "nothing is cached when the request fails")
}

func TestExplainMovementsRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	gen := &recordingGenerator{}
	movements := decompose(t, 0, 0, 1, 2)

	_, err := ExplainMovements(ctx, ExplainMovementsRequest{Movements: movements, Language: "en"}, nil, nil)
	require.Error(t, err)

	_, err = ExplainMovements(ctx, ExplainMovementsRequest{Movements: movements, Language: " "}, nil, gen)
	require.Error(t, err)

	tampered := append([]domain.Movement(nil), movements...)
	tampered[0].Direction = domain.South
	_, err = ExplainMovements(ctx, ExplainMovementsRequest{Movements: tampered, Language: "en"}, nil, gen)
	require.ErrorIs(t, err, domain.ErrDirectionMismatch)

	assert.Zero(t, gen.calls.Load())

	got, err := ExplainMovements(ctx, ExplainMovementsRequest{Language: "en"}, nil, gen)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExplainMovementsWithMockGenerator(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)
	gen := llm.NewMockExplanationGenerator(tr)
	cache := newMemoryCache()

	movements := decompose(t, 0, 0, 1, 2)

	got, err := ExplainMovements(context.Background(), ExplainMovementsRequest{
		Movements: movements,
		Language:  "es",
	}, cache, gen)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Text, "noreste")
	assert.Contains(t, got[0].Text, "2 movimientos")
	assert.Equal(t, 1, gen.Calls())

	_, err = ExplainMovements(context.Background(), ExplainMovementsRequest{
		Movements: movements,
		Language:  "es",
	}, cache, gen)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.Calls())
}

func TestExplainMovementsSharedKeyTextFitsEveryStep(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)
	gen := llm.NewMockExplanationGenerator(tr)
	cache := newMemoryCache()
	ctx := context.Background()

	// steps 1 and 3 are the same move
	first, err := ExplainMovements(ctx, ExplainMovementsRequest{
		Movements: decompose(t, 0, 0, 1, 1, 0, 0, 1, 1),
		Language:  "es",
	}, cache, gen)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, first[0].Text, first[2].Text)
	assert.Equal(t, 2, gen.Calls())

	// a later board reaches the same move at step 5 and is served from cache
	later, err := ExplainMovements(ctx, ExplainMovementsRequest{
		Movements: decompose(t, 4, 4, 3, 3, 2, 2, 1, 1, 0, 0, 1, 1),
		Language:  "es",
	}, cache, gen)
	require.NoError(t, err)
	require.Len(t, later, 5)
	assert.True(t, later[4].Cached)
	assert.Equal(t, first[0].Text, later[4].Text)

	for _, e := range append(first, later...) {
		assert.NotContains(t, e.Text, "Paso")
		assert.Contains(t, e.Text, "1 movimiento ")
	}
}
