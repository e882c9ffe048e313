package dto

import "encoding/json"

type PointJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Waypoints stays raw so the validation layer sees the exact client document.
type AnalyzeBoardRequest struct {
	Session   string          `json:"session"`
	Waypoints json.RawMessage `json:"waypoints"`
}

type MovementResponse struct {
	StepNumber     int       `json:"step_number"`
	From           PointJSON `json:"from"`
	To             PointJSON `json:"to"`
	Direction      string    `json:"direction"`
	DirectionLabel string    `json:"direction_label"`
}

type AnalyzeBoardResponse struct {
	TotalSteps int                `json:"total_steps"`
	Language   string             `json:"language"`
	Movements  []MovementResponse `json:"movements"`
}

type LastWaypointsResponse struct {
	Session   string      `json:"session"`
	Waypoints []PointJSON `json:"waypoints"`
}
