package event

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

const selectColumns = `
	SELECT id, title, description, place_id, date::text, start_time::text, end_time::text,
	       image_url, category, ticket_url, price::float8
	FROM events`

func scanRow(row interface{ Scan(...any) error }) (Row, error) {
	var r Row
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.PlaceID, &r.Date, &r.StartTime, &r.EndTime,
		&r.ImageURL, &r.Category, &r.TicketURL, &r.Price)
	return r, err
}

func (s *Service) Get(ctx context.Context, id string) (Row, error) {
	r, err := scanRow(s.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		return Row{}, apperr.Backend("load event", db.NotFound(err))
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]Row, error) {
	rows, err := s.db.Query(ctx, selectColumns+` ORDER BY date DESC`)
	if err != nil {
		return nil, apperr.Backend("list events", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, apperr.Backend("list events", err)
		}
		out = append(out, r)
	}
	return out, apperr.Backend("list events", rows.Err())
}

// ParseInput validates a submitted event form. An empty price stays unset.
func ParseInput(f admin.Form) (Input, error) {
	var c admin.Checker
	in := Input{
		Title:       f.Value("title"),
		Description: f.Value("description"),
		PlaceID:     f.Value("place_id"),
		Date:        f.Value("date"),
		StartTime:   f.Value("start_time"),
		EndTime:     admin.Optional(f.Value("end_time")),
		ImageURL:    admin.Optional(f.Value("image_url")),
		Category:    f.Value("category"),
		TicketURL:   admin.Optional(f.Value("ticket_url")),
	}
	in.Price = c.OptionalFloat(f, "price")
	c.Struct(in)
	return in, c.Err()
}

func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO events (id, title, description, place_id, date, start_time, end_time, image_url, category, ticket_url, price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, id, in.Title, in.Description, in.PlaceID, in.Date, in.StartTime, in.EndTime, in.ImageURL, in.Category, in.TicketURL, in.Price)
	if err != nil {
		return "", apperr.Backend("create event", err)
	}
	return id, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE events
		SET title=$2, description=$3, place_id=$4, date=$5, start_time=$6, end_time=$7,
		    image_url=$8, category=$9, ticket_url=$10, price=$11
		WHERE id=$1
	`, id, in.Title, in.Description, in.PlaceID, in.Date, in.StartTime, in.EndTime, in.ImageURL, in.Category, in.TicketURL, in.Price)
	if err != nil {
		return apperr.Backend("update event", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	return apperr.Backend("delete event", err)
}
