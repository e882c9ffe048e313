package dto

type MovementRequest struct {
	StepNumber int       `json:"step_number"`
	From       PointJSON `json:"from"`
	To         PointJSON `json:"to"`
	Direction  string    `json:"direction"`
}

type ExplanationsRequest struct {
	// Optional; falls back to ?lang= and Accept-Language.
	Language  string            `json:"language"`
	Movements []MovementRequest `json:"movements"`
}

type ExplanationResponse struct {
	StepNumber int    `json:"step_number"`
	Text       string `json:"text"`
	Cached     bool   `json:"cached"`
}

type ExplanationsResponse struct {
	Language     string                `json:"language"`
	Explanations []ExplanationResponse `json:"explanations"`
}

type LanguagesResponse struct {
	Default   string   `json:"default"`
	Supported []string `json:"supported"`
}
