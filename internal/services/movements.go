package services

import (
	"chebyshev-board/internal/domain"
	"fmt"
)

// ClassifyDirection maps the vector from -> to onto one of the 8 compass directions
// by the sign of each axis delta.
//
// A zero-length vector has no direction and yields domain.ErrDegenerateMovement.
func ClassifyDirection(from, to domain.Point) (domain.Direction, error) {
	dx, dy := from.Delta(to)

	switch sx, sy := sign(dx), sign(dy); {
	case sx == 0 && sy == 1:
		return domain.North, nil
	case sx == 1 && sy == 1:
		return domain.NorthEast, nil
	case sx == 1 && sy == 0:
		return domain.East, nil
	case sx == 1 && sy == -1:
		return domain.SouthEast, nil
	case sx == 0 && sy == -1:
		return domain.South, nil
	case sx == -1 && sy == -1:
		return domain.SouthWest, nil
	case sx == -1 && sy == 0:
		return domain.West, nil
	case sx == -1 && sy == 1:
		return domain.NorthWest, nil
	default:
		return 0, fmt.Errorf("classify direction %s -> %s: %w", from, to, domain.ErrDegenerateMovement)
	}
}

// DecomposeMovements produces one Movement per consecutive waypoint pair, in input order,
// numbered from 1.
//
// Lists with fewer than two waypoints decompose to an empty, non-nil slice.
// A pair of equal consecutive waypoints fails with domain.ErrDegenerateMovement.
func DecomposeMovements(waypoints []domain.Point) ([]domain.Movement, error) {
	if len(waypoints) <= 1 {
		return []domain.Movement{}, nil
	}

	movements := make([]domain.Movement, 0, len(waypoints)-1)
	for i := 1; i < len(waypoints); i++ {
		from, to := waypoints[i-1], waypoints[i]

		dir, err := ClassifyDirection(from, to)
		if err != nil {
			return nil, fmt.Errorf("decompose movements: %w",
				&domain.MovementError{Step: i, From: from, To: to, Err: domain.ErrDegenerateMovement})
		}

		movements = append(movements, domain.Movement{
			From:       from,
			To:         to,
			Direction:  dir,
			StepNumber: i,
		})
	}

	return movements, nil
}

// ValidateMovement checks that m's direction classifies its from/to vector
// and that its step number is positive.
func ValidateMovement(m domain.Movement) error {
	if m.StepNumber < 1 {
		return fmt.Errorf("validate movement: step number %d must be positive", m.StepNumber)
	}

	want, err := ClassifyDirection(m.From, m.To)
	if err != nil {
		return fmt.Errorf("validate movement: %w", &domain.MovementError{
			Step: m.StepNumber, From: m.From, To: m.To, Direction: m.Direction, Err: domain.ErrDegenerateMovement,
		})
	}

	if want != m.Direction {
		return fmt.Errorf("validate movement: vector is %s: %w", want, &domain.MovementError{
			Step: m.StepNumber, From: m.From, To: m.To, Direction: m.Direction, Err: domain.ErrDirectionMismatch,
		})
	}

	return nil
}
