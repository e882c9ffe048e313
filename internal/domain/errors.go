package domain

import (
	"errors"
	"strconv"
)

var (
	// ErrDegenerateMovement reports a transition whose origin equals its destination.
	// Such a transition has no compass direction.
	ErrDegenerateMovement = errors.New("degenerate movement: from and to are the same point")

	// ErrDirectionMismatch reports a Movement whose direction does not classify its from/to vector.
	ErrDirectionMismatch = errors.New("direction does not match movement vector")

	ErrInvalidDirection = errors.New("invalid direction")
)

// MovementError locates a rejected movement. Err is one of the sentinels above.
type MovementError struct {
	Step     int
	From, To Point
	// Direction given by the caller; zero when the movement was being classified.
	Direction Direction
	Err       error
}

func (e *MovementError) Error() string {
	return "step " + strconv.Itoa(e.Step) + " " + e.From.String() + " -> " + e.To.String() + ": " + e.Err.Error()
}

func (e *MovementError) Unwrap() error { return e.Err }

// Detail is a short, client-facing description of the rejected movement.
func (e *MovementError) Detail() string {
	s := "step " + strconv.Itoa(e.Step) + ": " + e.From.String() + " -> " + e.To.String()
	if e.Direction.IsValid() {
		s += " " + e.Direction.String()
	}
	return s
}
