package repositories

import (
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/platform/db"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(conn))
	return conn
}

func TestSqliteWaypointStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteWaypointStore(openTestDB(t), time.Hour)

	_, ok, err := store.LoadLast(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	first := []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 1}}
	require.NoError(t, store.SaveLast(ctx, "s1", first))

	got, ok, err := store.LoadLast(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, got)

	// saving again replaces the list, order preserved
	second := []domain.Point{{X: 5, Y: 5}, {X: 2, Y: 5}}
	require.NoError(t, store.SaveLast(ctx, " s1 ", second))

	got, ok, err = store.LoadLast(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestSqliteWaypointStoreEmptyList(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteWaypointStore(openTestDB(t), 0)

	require.NoError(t, store.SaveLast(ctx, "empty", nil))

	got, ok, err := store.LoadLast(ctx, "empty")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestSqliteWaypointStoreExpiry(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	store := NewSqliteWaypointStore(conn, time.Hour)

	clock := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	require.NoError(t, store.SaveLast(ctx, "s1", []domain.Point{{X: 1, Y: 1}}))

	clock = clock.Add(59 * time.Minute)
	_, ok, err := store.LoadLast(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	clock = clock.Add(2 * time.Minute)
	_, ok, err = store.LoadLast(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM waypoint_sessions`).Scan(&n))
	assert.Equal(t, 0, n, "expired entry should be deleted on read")
}

func TestSqliteWaypointStoreRejectsEmptySession(t *testing.T) {
	store := NewSqliteWaypointStore(openTestDB(t), 0)
	require.Error(t, store.SaveLast(context.Background(), "  ", []domain.Point{{X: 1, Y: 1}}))
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteWaypointStore(openTestDB(t), 0)

	require.NoError(t, SeedFromJSON(ctx, store, filepath.Join("..", "..", "..", "data", "seeds", "boards.json")))

	got, ok, err := store.LoadLast(ctx, "demo-zigzag")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 1}}, got)
}

func TestSeedFromJSONKeepsExistingSessions(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteWaypointStore(openTestDB(t), time.Hour)
	seeds := filepath.Join("..", "..", "..", "data", "seeds", "boards.json")

	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	clock := start
	store.now = func() time.Time { return clock }

	mine := []domain.Point{{X: 5, Y: 5}, {X: 6, Y: 6}}
	require.NoError(t, store.SaveLast(ctx, "demo-zigzag", mine))

	clock = start.Add(30 * time.Minute)
	require.NoError(t, SeedFromJSON(ctx, store, seeds))

	got, ok, err := store.LoadLast(ctx, "demo-zigzag")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mine, got, "existing session must not be overwritten")

	// second run: demo-compass (saved at +30m) is live and kept, demo-zigzag expired and is reseeded
	clock = start.Add(61 * time.Minute)
	require.NoError(t, SeedFromJSON(ctx, store, seeds))

	got, ok, err = store.LoadLast(ctx, "demo-zigzag")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 1}}, got)

	// the second run did not refresh demo-compass, so it expires an hour after the first
	clock = start.Add(91 * time.Minute)
	_, ok, err = store.LoadLast(ctx, "demo-compass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeedFromJSONRejectsInvalidBoards(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteWaypointStore(openTestDB(t), 0)
	dir := t.TempDir()

	cases := map[string]string{
		"negative coordinate": `[{"session":"a","waypoints":[{"x":-1,"y":0}]}]`,
		"missing session":     `[{"session":"","waypoints":[]}]`,
		"not an array":        `{"session":"a"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			require.Error(t, SeedFromJSON(ctx, store, path))
		})
	}

	require.Error(t, SeedFromJSON(ctx, store, filepath.Join(dir, "missing.json")))
}

func TestInitSchemaNilDB(t *testing.T) {
	require.Error(t, InitSchema(nil))
}
