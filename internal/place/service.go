package place

import (
	"context"

	"welly-web/internal/admin"
	"welly-web/internal/db"
	"welly-web/internal/shared/apperr"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

const selectColumns = `SELECT id, name, category, address, latitude, longitude, google_place_id FROM places`

func scanRow(row interface{ Scan(...any) error }) (Row, error) {
	var r Row
	err := row.Scan(&r.ID, &r.Name, &r.Category, &r.Address, &r.Latitude, &r.Longitude, &r.GooglePlaceID)
	return r, err
}

func (s *Service) Get(ctx context.Context, id string) (Row, error) {
	r, err := scanRow(s.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		return Row{}, apperr.Backend("load place", db.NotFound(err))
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]Row, error) {
	rows, err := s.db.Query(ctx, selectColumns+` ORDER BY name`)
	if err != nil {
		return nil, apperr.Backend("list places", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, apperr.Backend("list places", err)
		}
		out = append(out, r)
	}
	return out, apperr.Backend("list places", rows.Err())
}

// ParseInput validates a submitted place form.
func ParseInput(f admin.Form) (Input, error) {
	var c admin.Checker
	in := Input{
		Name:          f.Value("name"),
		Category:      f.Value("category"),
		Address:       f.Value("address"),
		GooglePlaceID: admin.Optional(f.Value("google_place_id")),
	}
	in.Latitude = c.Float(f, "latitude")
	in.Longitude = c.Float(f, "longitude")
	c.Struct(in)
	return in, c.Err()
}

func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO places (id, name, category, address, latitude, longitude, google_place_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, id, in.Name, in.Category, in.Address, in.Latitude, in.Longitude, in.GooglePlaceID)
	if err != nil {
		return "", apperr.Backend("create place", err)
	}
	return id, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE places
		SET name=$2, category=$3, address=$4, latitude=$5, longitude=$6, google_place_id=$7
		WHERE id=$1
	`, id, in.Name, in.Category, in.Address, in.Latitude, in.Longitude, in.GooglePlaceID)
	if err != nil {
		return apperr.Backend("update place", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Relocate moves a place without touching its category. Trails use it to keep
// their shadow place in step with the trailhead.
func (s *Service) Relocate(ctx context.Context, id, name, address string, lat, lng float64) error {
	_, err := s.db.Exec(ctx, `
		UPDATE places SET name=$2, address=$3, latitude=$4, longitude=$5 WHERE id=$1
	`, id, name, address, lat, lng)
	return apperr.Backend("update place", err)
}

func (s *Service) Dependents(ctx context.Context, id string) (Dependents, error) {
	var d Dependents
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM posts WHERE place_id = $1),
			(SELECT count(*) FROM events WHERE place_id = $1),
			(SELECT count(*) FROM trails WHERE place_id = $1)
	`, id).Scan(&d.Posts, &d.Events, &d.Trails)
	if err != nil {
		return Dependents{}, apperr.Backend("count place references", err)
	}
	return d, nil
}

// Delete refuses while posts, events or trails still reference the place.
func (s *Service) Delete(ctx context.Context, id string) error {
	deps, err := s.Dependents(ctx, id)
	if err != nil {
		return err
	}
	if deps.Any() {
		return &apperr.IntegrityConflict{Message: deps.Message()}
	}
	return s.Remove(ctx, id)
}

// Remove deletes the row without the reference check.
func (s *Service) Remove(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM places WHERE id=$1`, id)
	return apperr.Backend("delete place", err)
}
