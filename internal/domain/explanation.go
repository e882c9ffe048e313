package domain

import "time"

// Cache identity of a generated explanation.
// Step numbers are deliberately absent: the same move explains the same way wherever it occurs.
type ExplanationKey struct {
	From      Point
	To        Point
	Direction Direction
	Language  string
}

// String renders the key as "x,y>x,y|DIR|lang".
func (k ExplanationKey) String() string {
	return k.From.String() + ">" + k.To.String() + "|" + k.Direction.String() + "|" + k.Language
}

func KeyFor(m Movement, language string) ExplanationKey {
	return ExplanationKey{From: m.From, To: m.To, Direction: m.Direction, Language: language}
}

// A natural-language justification of one Movement.
type Explanation struct {
	Movement Movement
	Language string
	Text     string
	Cached   bool
}

// Last-used waypoint list of one session.
type WaypointSession struct {
	Session   string
	Waypoints []Point
	SavedAt   time.Time
}

// Expired reports whether the session is older than ttl at now.
// A non-positive ttl never expires.
func (s WaypointSession) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.SavedAt) > ttl
}
