package event

import (
	"strconv"
	"time"
)

const kind = "event"

var Categories = []string{"music", "comedy", "art", "food", "market", "community", "quiz", "craft", "kids", "cultural"}

// Row mirrors the events table. Date and times are kept in their SQL text form.
type Row struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PlaceID     string   `json:"place_id"`
	Date        string   `json:"date"`
	StartTime   string   `json:"start_time"`
	EndTime     *string  `json:"end_time"`
	ImageURL    *string  `json:"image_url"`
	Category    string   `json:"category"`
	TicketURL   *string  `json:"ticket_url"`
	Price       *float64 `json:"price"`
}

// Event keeps a NULL price as null: nil means unspecified and 0 means free.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PlaceID     string   `json:"placeId"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime"`
	EndTime     *string  `json:"endTime,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Category    string   `json:"category"`
	TicketURL   *string  `json:"ticketUrl,omitempty"`
	Price       *float64 `json:"price"`
}

func FromRow(r Row) Event {
	return Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		PlaceID:     r.PlaceID,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		TicketURL:   r.TicketURL,
		Price:       r.Price,
	}
}

// FormattedDate renders the date like "Friday, 14 March". Unparseable dates
// are returned unchanged.
func (e Event) FormattedDate() string {
	d, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return e.Date
	}
	return d.Format("Monday, 2 January")
}

// PriceLabel is empty when the price is unspecified.
func (e Event) PriceLabel() string {
	switch {
	case e.Price == nil:
		return ""
	case *e.Price == 0:
		return "Free"
	default:
		return "$" + strconv.FormatFloat(*e.Price, 'f', 2, 64)
	}
}

// TimeRange is "19:00" or "19:00 - 22:00", seconds dropped.
func (e Event) TimeRange() string {
	s := clock(e.StartTime)
	if e.EndTime != nil && *e.EndTime != "" {
		s += " - " + clock(*e.EndTime)
	}
	return s
}

func clock(t string) string {
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}

type Input struct {
	Title       string   `form:"title" validate:"required"`
	Description string   `form:"description" validate:"required"`
	PlaceID     string   `form:"place_id" validate:"required"`
	Date        string   `form:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string   `form:"start_time" validate:"required"`
	EndTime     *string  `form:"end_time"`
	ImageURL    *string  `form:"image_url" validate:"omitempty,url"`
	Category    string   `form:"category" validate:"required,oneof=music comedy art food market community quiz craft kids cultural"`
	TicketURL   *string  `form:"ticket_url" validate:"omitempty,url"`
	Price       *float64 `form:"price" validate:"omitempty,gte=0"`
}
