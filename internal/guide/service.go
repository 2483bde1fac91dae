package guide

import (
	"context"
	"encoding/json"

	"welly-web/internal/admin"
	"welly-web/internal/db"
	"welly-web/internal/shared/apperr"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

const selectColumns = `SELECT id, user_id, title, description, cover_image_url, likes, created_at FROM guides`

func scanRow(row interface{ Scan(...any) error }) (Row, error) {
	var r Row
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.CoverImageURL, &r.Likes, &r.CreatedAt)
	return r, err
}

func (s *Service) Get(ctx context.Context, id string) (Row, error) {
	r, err := scanRow(s.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		return Row{}, apperr.Backend("load guide", db.NotFound(err))
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]Row, error) {
	rows, err := s.db.Query(ctx, selectColumns+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperr.Backend("list guides", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, apperr.Backend("list guides", err)
		}
		out = append(out, r)
	}
	return out, apperr.Backend("list guides", rows.Err())
}

// Places returns the guide's memberships in sort order, each with its place.
func (s *Service) Places(ctx context.Context, guideID string) ([]PlaceRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT gp.place_id, gp.sort_order, gp.note,
		       json_build_object('id', p.id, 'name', p.name, 'category', p.category, 'address', p.address,
		                         'latitude', p.latitude, 'longitude', p.longitude, 'google_place_id', p.google_place_id)
		FROM guide_places gp
		JOIN places p ON p.id = gp.place_id
		WHERE gp.guide_id = $1
		ORDER BY gp.sort_order
	`, guideID)
	if err != nil {
		return nil, apperr.Backend("list guide places", err)
	}
	defer rows.Close()

	var out []PlaceRow
	for rows.Next() {
		var (
			r      PlaceRow
			joined []byte
		)
		if err := rows.Scan(&r.PlaceID, &r.SortOrder, &r.Note, &joined); err != nil {
			return nil, apperr.Backend("list guide places", err)
		}
		if err := json.Unmarshal(joined, &r.Places); err != nil {
			return nil, apperr.Backend("decode guide place", err)
		}
		out = append(out, r)
	}
	return out, apperr.Backend("list guide places", rows.Err())
}

func ParseInput(f admin.Form) (Input, error) {
	var c admin.Checker
	in := Input{
		Title:         f.Value("title"),
		Description:   admin.Optional(f.Value("description")),
		CoverImageURL: admin.Optional(f.Value("cover_image_url")),
	}
	if in.Title == "" {
		c.Message("Title is required")
	}
	c.Struct(in)
	return in, c.Err()
}

func (s *Service) Update(ctx context.Context, id string, in Input) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE guides SET title=$2, description=$3, cover_image_url=$4 WHERE id=$1
	`, id, in.Title, in.Description, in.CoverImageURL)
	if err != nil {
		return apperr.Backend("update guide", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the guide's memberships first, then the guide.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM guide_places WHERE guide_id=$1`, id); err != nil {
		return apperr.Backend("delete guide places", err)
	}
	_, err := s.db.Exec(ctx, `DELETE FROM guides WHERE id=$1`, id)
	return apperr.Backend("delete guide", err)
}
