package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExplanationKeyString(t *testing.T) {
	m := Movement{From: Point{X: 0, Y: 0}, To: Point{X: 1, Y: 2}, Direction: NorthEast, StepNumber: 3}

	key := KeyFor(m, "es")
	assert.Equal(t, "(0,0)>(1,2)|NE|es", key.String())

	// step number does not participate in the key
	m.StepNumber = 7
	assert.Equal(t, key, KeyFor(m, "es"))
	assert.NotEqual(t, key, KeyFor(m, "en"))
}

func TestWaypointSessionExpired(t *testing.T) {
	savedAt := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	s := WaypointSession{Session: "abc", SavedAt: savedAt}

	assert.False(t, s.Expired(savedAt.Add(time.Hour), 2*time.Hour))
	assert.True(t, s.Expired(savedAt.Add(3*time.Hour), 2*time.Hour))
	assert.False(t, s.Expired(savedAt.Add(1000*time.Hour), 0))
}
