package repositories

import (
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/platform/obs"
	"chebyshev-board/internal/ports"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLite-backed implementation of the WaypointStore port.
// Entries older than TTL are reported missing and deleted on read; TTL <= 0 keeps them forever.
type SqliteWaypointStore struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

var _ ports.WaypointStore = (*SqliteWaypointStore)(nil)

func NewSqliteWaypointStore(db *sql.DB, ttl time.Duration) *SqliteWaypointStore {
	return &SqliteWaypointStore{DB: db, TTL: ttl, now: time.Now}
}

// Replace the session's last-used waypoint list.
func (s *SqliteWaypointStore) SaveLast(ctx context.Context, session string, waypoints []domain.Point) error {
	if s.DB == nil {
		return errors.New("sqlite waypoint store: DB is nil")
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
	INSERT OR REPLACE INTO waypoint_sessions (
		session,
		waypoints,
		saved_at
	)
	VALUES (?, ?, ?);
	`, session, encoded, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save waypoints session=%q: %w", session, err)
	}

	return nil
}

// Return the session's last-used waypoint list.
func (s *SqliteWaypointStore) LoadLast(
	ctx context.Context,
	session string,
) (_ []domain.Point, _ bool, err error) {
	defer obs.Time(ctx, "waypoints.sqlite.LoadLast")(&err)

	if s.DB == nil {
		return nil, false, errors.New("sqlite waypoint store: DB is nil")
	}

	var encoded string
	var savedAtMs int64
	err = s.DB.QueryRowContext(ctx, `
	SELECT
		waypoints,
		saved_at
	FROM waypoint_sessions
	WHERE session = ?;
	`, session).Scan(&encoded, &savedAtMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load waypoints session=%q: query waypoint_sessions table: %w", session, err)
	}

	entry := domain.WaypointSession{Session: session, SavedAt: time.UnixMilli(savedAtMs)}
	if entry.Expired(s.now(), s.TTL) {
		if _, err := s.DB.ExecContext(ctx, `DELETE FROM waypoint_sessions WHERE session = ?;`, session); err != nil {
			return nil, false, fmt.Errorf("load waypoints session=%q: delete expired: %w", session, err)
		}
		return nil, false, nil
	}

	points, err := decodeWaypoints([]byte(encoded))
	if err != nil {
		return nil, false, fmt.Errorf("load waypoints session=%q: %w", session, err)
	}

	return points, true, nil
}

type storedPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func encodeWaypoints(points []domain.Point) (string, error) {
	stored := make([]storedPoint, 0, len(points))
	for _, p := range points {
		stored = append(stored, storedPoint{X: p.X, Y: p.Y})
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode waypoints: %w", err)
	}
	return string(b), nil
}

func decodeWaypoints(b []byte) ([]domain.Point, error) {
	var stored []storedPoint
	if err := json.Unmarshal(b, &stored); err != nil {
		return nil, fmt.Errorf("decode waypoints: %w", err)
	}
	points := make([]domain.Point, 0, len(stored))
	for _, p := range stored {
		points = append(points, domain.Point{X: p.X, Y: p.Y})
	}
	return points, nil
}
