// Package validation turns untrusted waypoint input into domain points.
package validation

import (
	"bytes"
	"chebyshev-board/internal/domain"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// MaxWaypoints bounds the length of one waypoint list; it matches maxItems in the schema.
const MaxWaypoints = 256

//go:embed waypoints.schema.json
var waypointsSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(waypointsSchema)

// ValidationError lists every problem found in a waypoint document.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid waypoints: " + strings.Join(e.Details, "; ")
}

// Coordinates decode as json.Number: the schema counts 1.0 as an integer.
type waypoint struct {
	X json.Number `json:"x"`
	Y json.Number `json:"y"`
}

// ParseWaypoints validates a JSON array of {"x": int, "y": int} objects with
// non-negative coordinates and returns the points in order.
func ParseWaypoints(raw []byte) ([]domain.Point, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, &ValidationError{Details: []string{"waypoints must be a JSON array"}}
	}
	if !json.Valid(raw) {
		return nil, &ValidationError{Details: []string{"waypoints are not valid JSON"}}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse waypoints: schema validate: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, &ValidationError{Details: details}
	}

	var items []waypoint
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ValidationError{Details: []string{"waypoints must be an array of {x, y} objects"}}
	}

	var details []string
	points := make([]domain.Point, 0, len(items))
	for i, it := range items {
		x, okX := coordinate(it.X)
		y, okY := coordinate(it.Y)
		if !okX {
			details = append(details, fmt.Sprintf("%d.x: must be an integer", i))
		}
		if !okY {
			details = append(details, fmt.Sprintf("%d.y: must be an integer", i))
		}
		points = append(points, domain.Point{X: x, Y: y})
	}
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	return points, nil
}

// coordinate accepts integral numbers ("3", "3.0", "3e0") that fit in an int.
func coordinate(n json.Number) (int, bool) {
	if v, err := strconv.ParseInt(n.String(), 10, strconv.IntSize); err == nil {
		return int(v), true
	}

	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// CheckBounds rejects points outside a size x size board anchored at (0,0).
// A non-positive size disables the check.
func CheckBounds(points []domain.Point, size int) error {
	if size <= 0 {
		return nil
	}

	var details []string
	for i, p := range points {
		if p.X < 0 || p.Y < 0 || p.X >= size || p.Y >= size {
			details = append(details, fmt.Sprintf("waypoint %d %s is outside the %dx%d board", i+1, p, size, size))
		}
	}
	if len(details) > 0 {
		return &ValidationError{Details: details}
	}

	return nil
}
