package domain

import (
	"fmt"
	"strings"
)

// Direction is one of the 8 compass directions a piece can step in.
// The zero value is not a valid direction.
type Direction int

const (
	North Direction = iota + 1
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// AllDirections returns the 8 directions clockwise from North.
func AllDirections() []Direction {
	return []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}
}

// String returns the compass code (N, NE, ...).
func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case NorthEast:
		return "NE"
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case South:
		return "S"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	case NorthWest:
		return "NW"
	default:
		return "Unknown"
	}
}

func (d Direction) IsValid() bool {
	return d >= North && d <= NorthWest
}

// Vector returns the unit step for this direction.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case NorthEast:
		return 1, 1
	case East:
		return 1, 0
	case SouthEast:
		return 1, -1
	case South:
		return 0, -1
	case SouthWest:
		return -1, -1
	case West:
		return -1, 0
	case NorthWest:
		return -1, 1
	default:
		return 0, 0
	}
}

// ParseDirection accepts a compass code, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for _, d := range AllDirections() {
		if d.String() == code {
			return d, nil
		}
	}
	return 0, fmt.Errorf("parse direction %q: %w", s, ErrInvalidDirection)
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("marshal direction %d: %w", int(d), ErrInvalidDirection)
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
