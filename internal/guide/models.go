package guide

import (
	"bytes"
	"encoding/json"
	"time"

	"welly-web/internal/place"
)

const kind = "guide"

// Row mirrors guides.
type Row struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	CoverImageURL *string   `json:"cover_image_url"`
	Likes         int       `json:"likes"`
	CreatedAt     time.Time `json:"created_at"`
}

type Guide struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty"`
	Likes         int       `json:"likes"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromRow(r Row) Guide {
	return Guide{
		ID:            r.ID,
		UserID:        r.UserID,
		Title:         r.Title,
		Description:   r.Description,
		CoverImageURL: r.CoverImageURL,
		Likes:         r.Likes,
		CreatedAt:     r.CreatedAt,
	}
}

// PlaceJoin is the joined place of a guide membership. The join comes back
// either as an object or as a one-element array; both decode to the same row.
type PlaceJoin struct {
	place.Row
}

func (j *PlaceJoin) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []place.Row
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			j.Row = list[0]
		}
		return nil
	}
	return json.Unmarshal(b, &j.Row)
}

// PlaceRow is one guide_places row with its place.
type PlaceRow struct {
	PlaceID   string    `json:"place_id"`
	SortOrder int       `json:"sort_order"`
	Note      *string   `json:"note"`
	Places    PlaceJoin `json:"places"`
}

type GuidePlace struct {
	PlaceID   string      `json:"placeId"`
	SortOrder int         `json:"sortOrder"`
	Note      *string     `json:"note,omitempty"`
	Place     place.Place `json:"place"`
}

func PlaceFromRow(r PlaceRow) GuidePlace {
	return GuidePlace{
		PlaceID:   r.PlaceID,
		SortOrder: r.SortOrder,
		Note:      r.Note,
		Place:     place.FromRow(r.Places.Row),
	}
}

// Input is the editable part of a guide. Guides are authored in the app.
type Input struct {
	Title         string  `form:"title" validate:"required"`
	Description   *string `form:"description"`
	CoverImageURL *string `form:"cover_image_url" validate:"omitempty,url"`
}
