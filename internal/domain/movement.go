package domain

// Represents one decomposed step between two consecutive waypoints.
// StepNumber is 1-based and matches the position in the decomposed sequence.
type Movement struct {
	From       Point
	To         Point
	Direction  Direction
	StepNumber int
}

// Represents the result of analysing a waypoint list.
// TotalSteps and Movements are computed independently from the same input.
type BoardAnalysis struct {
	TotalSteps int
	Movements  []Movement
}
