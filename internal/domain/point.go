package domain

import "strconv"

// Immutable cell coordinate on the board.
// Increasing X is east, increasing Y is north.
type Point struct {
	X int
	Y int
}

// Delta returns the signed displacement (to - p) along each axis.
func (p Point) Delta(to Point) (dx, dy int) {
	return to.X - p.X, to.Y - p.Y
}

func (p Point) String() string {
	return "(" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + ")"
}
