package services

import "chebyshev-board/internal/domain"

// ChebyshevDistance returns the minimum number of 8-directional single-cell moves
// between two cells: max(|dx|, |dy|).
//
// A diagonal step advances both axes at once, so only the longer axis costs moves.
func ChebyshevDistance(from, to domain.Point) int {
	dx, dy := from.Delta(to)
	return max(absInt(dx), absInt(dy))
}

// MinimumSteps sums the Chebyshev distance over each consecutive pair of waypoints,
// visiting them in the given order.
func MinimumSteps(waypoints []domain.Point) int {
	if len(waypoints) <= 1 {
		return 0
	}

	total := 0
	for i := 1; i < len(waypoints); i++ {
		total += ChebyshevDistance(waypoints[i-1], waypoints[i])
	}
	return total
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
