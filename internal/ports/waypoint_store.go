package ports

import (
	"chebyshev-board/internal/domain"
	"context"
)

// Port: persistence of the last-used waypoint list per session.
type WaypointStore interface {
	// Replace the session's last-used list.
	SaveLast(ctx context.Context, session string, waypoints []domain.Point) error
	// Return the session's last-used list; ok is false when missing or expired.
	LoadLast(ctx context.Context, session string) (_ []domain.Point, ok bool, err error)
}
