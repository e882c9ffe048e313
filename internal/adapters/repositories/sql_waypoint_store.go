package repositories

import (
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/platform/obs"
	"chebyshev-board/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Postgres-backed implementation of the WaypointStore port.
type SQLWaypointStore struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

var _ ports.WaypointStore = (*SQLWaypointStore)(nil)

func NewSQLWaypointStore(db *sql.DB, ttl time.Duration) *SQLWaypointStore {
	return &SQLWaypointStore{DB: db, TTL: ttl, now: time.Now}
}

// Replace the session's last-used waypoint list.
func (s *SQLWaypointStore) SaveLast(ctx context.Context, session string, waypoints []domain.Point) error {
	if s.DB == nil {
		return errors.New("sql waypoint store: DB is nil")
	}

	session = strings.TrimSpace(session)
	if session == "" {
		return errors.New("save waypoints: session must not be empty")
	}

	encoded, err := encodeWaypoints(waypoints)
	if err != nil {
		return fmt.Errorf("save waypoints session=%q: %w", session, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO waypoint_sessions (session, waypoints, saved_at)
    VALUES ($1, $2::jsonb, $3)
	ON CONFLICT (session) DO UPDATE
	SET waypoints = EXCLUDED.waypoints,
		saved_at = EXCLUDED.saved_at;
	`, session, encoded, s.now().UTC())
	if err != nil {
		return fmt.Errorf("save waypoints session=%q: %w", session, err)
	}

	return nil
}

// Return the session's last-used waypoint list.
func (s *SQLWaypointStore) LoadLast(
	ctx context.Context,
	session string,
) (_ []domain.Point, _ bool, err error) {
	defer obs.Time(ctx, "waypoints.sql.LoadLast")(&err)

	if s.DB == nil {
		return nil, false, errors.New("sql waypoint store: DB is nil")
	}

	var encoded []byte
	var savedAt time.Time
	err = s.DB.QueryRowContext(ctx, `
	SELECT waypoints, saved_at
    FROM waypoint_sessions
    WHERE session = $1;
	`, session).Scan(&encoded, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load waypoints session=%q: query waypoint_sessions table: %w", session, err)
	}

	entry := domain.WaypointSession{Session: session, SavedAt: savedAt}
	if entry.Expired(s.now(), s.TTL) {
		if _, err := s.DB.ExecContext(ctx, `DELETE FROM waypoint_sessions WHERE session = $1;`, session); err != nil {
			return nil, false, fmt.Errorf("load waypoints session=%q: delete expired: %w", session, err)
		}
		return nil, false, nil
	}

	points, err := decodeWaypoints(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("load waypoints session=%q: %w", session, err)
	}

	return points, true, nil
}
