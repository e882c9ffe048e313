package repositories

import (
	"chebyshev-board/internal/platform/logging"
	"chebyshev-board/internal/ports"
	"chebyshev-board/internal/validation"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	return execSchema(db, []string{
		`
	CREATE TABLE IF NOT EXISTS waypoint_sessions (
		session TEXT PRIMARY KEY,
		waypoints TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS explanation_cache (
        cache_key TEXT PRIMARY KEY,
        language TEXT NOT NULL,
        text TEXT NOT NULL,
        created_at INTEGER NOT NULL,
        expires_at INTEGER
    );
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_explanation_cache_expires_at
    ON explanation_cache(expires_at);
	`,
	})
}

// Initialize the postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	return execSchema(db, []string{
		`
	CREATE TABLE IF NOT EXISTS waypoint_sessions (
		session TEXT PRIMARY KEY,
		waypoints JSONB NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS explanation_cache (
        cache_key TEXT PRIMARY KEY,
        language TEXT NOT NULL,
        text TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        expires_at TIMESTAMPTZ
    );
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_explanation_cache_expires_at
    ON explanation_cache(expires_at);
	`,
	})
}

func execSchema(db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type BoardSeed struct {
	Session   string          `json:"session"`
	Waypoints json.RawMessage `json:"waypoints"`
}

// Populate the store with example boards from a JSON file.
// Sessions that already hold an unexpired list are left untouched.
func SeedFromJSON(ctx context.Context, store ports.WaypointStore, jsonPath string) error {
	if store == nil {
		return errors.New("seed boards: store is nil")
	}

	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed boards: read %q: %w", jsonPath, err)
	}

	var data []BoardSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed boards: parse json: %w", err)
	}

	var seeded, skipped int
	for i, item := range data {
		session := strings.TrimSpace(item.Session)
		if session == "" {
			return fmt.Errorf("seed boards: item at index %d: session cannot be empty", i+1)
		}

		points, err := validation.ParseWaypoints(item.Waypoints)
		if err != nil {
			return fmt.Errorf("seed boards: session %q: %w", session, err)
		}

		_, exists, err := store.LoadLast(ctx, session)
		if err != nil {
			return fmt.Errorf("seed boards: load session %q: %w", session, err)
		}
		if exists {
			skipped++
			continue
		}

		if err := store.SaveLast(ctx, session, points); err != nil {
			return fmt.Errorf("seed boards: save session %q: %w", session, err)
		}
		seeded++
	}

	logging.WithComponent("repositories").InfoContext(ctx, "seeded demo boards",
		"path", jsonPath, "seeded", seeded, "skipped", skipped)

	return nil
}
