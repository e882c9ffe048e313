package services

import (
	"chebyshev-board/internal/domain"
	"chebyshev-board/internal/platform/logging"
	"chebyshev-board/internal/platform/obs"
	"chebyshev-board/internal/ports"
	"context"
	"fmt"
	"strings"
)

type AnalyzeBoardRequest struct {
	// Optional; when set and a store is given, the waypoints become the session's last-used list.
	Session   string
	Waypoints []domain.Point
}

// AnalyzeBoard runs the distance engine and the movement decomposer over the same
// waypoint list. The two results are computed independently.
//
// Waypoints are expected to be validated already (non-negative, within the board).
// store may be nil.
func AnalyzeBoard(
	ctx context.Context,
	req AnalyzeBoardRequest,
	store ports.WaypointStore,
) (_ *domain.BoardAnalysis, err error) {
	defer obs.Time(ctx, "board.Analyze")(&err)

	movements, err := DecomposeMovements(req.Waypoints)
	if err != nil {
		return nil, fmt.Errorf("analyze board: %w", err)
	}

	analysis := &domain.BoardAnalysis{
		TotalSteps: MinimumSteps(req.Waypoints),
		Movements:  movements,
	}

	session := strings.TrimSpace(req.Session)
	if store != nil && session != "" {
		// Remembering the list is a convenience; analysis succeeds without it.
		if err := store.SaveLast(ctx, session, req.Waypoints); err != nil {
			logging.WithComponent("services").WarnContext(ctx, "save last waypoints failed",
				"session", session, "err", err)
		}
	}

	return analysis, nil
}

// LastWaypoints returns the session's last-used waypoint list.
func LastWaypoints(ctx context.Context, session string, store ports.WaypointStore) ([]domain.Point, bool, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, false, fmt.Errorf("last waypoints: session must be non-empty")
	}
	if store == nil {
		return nil, false, nil
	}

	points, ok, err := store.LoadLast(ctx, session)
	if err != nil {
		return nil, false, fmt.Errorf("last waypoints: session %q: %w", session, err)
	}

	return points, ok, nil
}
