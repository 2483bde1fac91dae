package trail

import (
	"encoding/json"

	"welly-web/internal/shared/geo"
)

const kind = "trail"

var Difficulties = []string{"easy", "moderate", "hard"}

var DifficultyLabels = map[string]string{
	"easy":     "Easy",
	"moderate": "Moderate",
	"hard":     "Hard",
}

var DifficultyColors = map[string]string{
	"easy":     "#22C55E",
	"moderate": "#F59E0B",
	"hard":     "#EF4444",
}

// Trailhead is where a walk starts. Stored as jsonb on trails.
type Trailhead struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// Row mirrors trails. Highlights is kept raw since older rows hold
// non-list values there.
type Row struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Difficulty  string          `json:"difficulty"`
	Distance    string          `json:"distance"`
	Elevation   string          `json:"elevation"`
	Duration    string          `json:"duration"`
	Highlights  json.RawMessage `json:"highlights"`
	PlaceID     string          `json:"place_id"`
	Trailhead   *Trailhead      `json:"trailhead"`
	Coordinates []geo.Point     `json:"coordinates"`
}

type Trail struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty"`
	Distance    string      `json:"distance"`
	Elevation   string      `json:"elevation"`
	Duration    string      `json:"duration"`
	Highlights  []string    `json:"highlights"`
	PlaceID     string      `json:"placeId"`
	Trailhead   *Trailhead  `json:"trailhead,omitempty"`
	Coordinates []geo.Point `json:"coordinates,omitempty"`
}

func FromRow(r Row) Trail {
	return Trail{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Difficulty:  r.Difficulty,
		Distance:    r.Distance,
		Elevation:   r.Elevation,
		Duration:    r.Duration,
		Highlights:  decodeHighlights(r.Highlights),
		PlaceID:     r.PlaceID,
		Trailhead:   r.Trailhead,
		Coordinates: r.Coordinates,
	}
}

// decodeHighlights returns an empty list for anything but a JSON string array.
func decodeHighlights(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return out
	}
	return list
}

func (t Trail) DifficultyLabel() string {
	if l, ok := DifficultyLabels[t.Difficulty]; ok {
		return l
	}
	return t.Difficulty
}

// DifficultyColor falls back to the moderate badge color.
func (t Trail) DifficultyColor() string {
	if c, ok := DifficultyColors[t.Difficulty]; ok {
		return c
	}
	return DifficultyColors["moderate"]
}

// LengthKm is the walked length of the recorded path, 0 without one.
func (t Trail) LengthKm() float64 {
	return geo.PathLengthKm(t.Coordinates)
}

// Input is a validated trail form.
type Input struct {
	Name        string          `form:"name" validate:"required"`
	Description string          `form:"description" validate:"required"`
	Difficulty  string          `form:"difficulty" validate:"required,oneof=easy moderate hard"`
	Distance    string          `form:"distance" validate:"required"`
	Elevation   string          `form:"elevation" validate:"required"`
	Duration    string          `form:"duration" validate:"required"`
	Highlights  []string        `form:"highlights" validate:"-"`
	Trailhead   *Trailhead      `form:"-" validate:"-"`
	Coordinates json.RawMessage `form:"coordinates" validate:"-"`
}

// Location is where the shadow place sits: the trailhead, or central
// Wellington when none was given.
func (in Input) Location() (address string, at geo.Point) {
	if in.Trailhead == nil {
		return in.Name, geo.Wellington
	}
	return in.Trailhead.Label, geo.Point{Lat: in.Trailhead.Latitude, Lng: in.Trailhead.Longitude}
}
