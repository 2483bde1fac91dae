package place

import "strconv"

const kind = "place"

// Categories in the order the dashboard offers them.
var Categories = []string{"cafe", "restaurant", "bar", "attraction", "park", "venue", "trail"}

var CategoryLabels = map[string]string{
	"cafe":       "Cafe",
	"restaurant": "Restaurant",
	"bar":        "Bar",
	"attraction": "Attraction",
	"park":       "Park",
	"venue":      "Venue",
	"trail":      "Trail",
}

// CategoryLabel falls back to the raw category.
func CategoryLabel(category string) string {
	if l, ok := CategoryLabels[category]; ok {
		return l
	}
	return category
}

// Row mirrors the places table.
type Row struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	GooglePlaceID *string `json:"google_place_id"`
}

type Place struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	GooglePlaceID *string `json:"googlePlaceId,omitempty"`
}

func FromRow(r Row) Place {
	return Place{
		ID:            r.ID,
		Name:          r.Name,
		Category:      r.Category,
		Address:       r.Address,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		GooglePlaceID: r.GooglePlaceID,
	}
}

func (p Place) CategoryLabel() string {
	return CategoryLabel(p.Category)
}

// Input is a validated create or update.
type Input struct {
	Name          string  `form:"name" validate:"required"`
	Category      string  `form:"category" validate:"required,oneof=cafe restaurant bar attraction park venue trail"`
	Address       string  `form:"address" validate:"required"`
	Latitude      float64 `form:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64 `form:"longitude" validate:"gte=-180,lte=180"`
	GooglePlaceID *string `form:"google_place_id"`
}

// Dependents counts the rows that reference a place.
type Dependents struct {
	Posts  int
	Events int
	Trails int
}

func (d Dependents) Any() bool {
	return d.Posts > 0 || d.Events > 0 || d.Trails > 0
}

// Message lists only the non-zero counts.
func (d Dependents) Message() string {
	msg := "Cannot delete: place has "
	parts := 0
	add := func(n int, noun string) {
		if n <= 0 {
			return
		}
		if parts > 0 {
			msg += ", "
		}
		msg += strconv.Itoa(n) + " " + noun
		parts++
	}
	add(d.Posts, "posts")
	add(d.Events, "events")
	add(d.Trails, "trails")
	return msg + " linked to it"
}
