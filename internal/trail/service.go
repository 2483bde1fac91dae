package trail

import (
	"context"
	"encoding/json"
	"strings"

	"welly-web/internal/admin"
	"welly-web/internal/db"
	"welly-web/internal/logging"
	"welly-web/internal/place"
	"welly-web/internal/shared/apperr"
	"welly-web/internal/shared/geo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns trails and the shadow place each trail is mapped to.
type Service struct {
	db     db.Querier
	places *place.Service
	log    *zap.Logger
}

func NewService(db db.Querier, places *place.Service, log *zap.Logger) *Service {
	return &Service{db: db, places: places, log: logging.OrNop(log)}
}

const selectColumns = `
	SELECT id, name, description, difficulty, distance, elevation, duration,
	       highlights, place_id, trailhead, coordinates
	FROM trails`

func scanRow(row interface{ Scan(...any) error }) (Row, error) {
	var (
		r                                  Row
		highlights, trailhead, coordinates []byte
	)
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Difficulty, &r.Distance, &r.Elevation, &r.Duration,
		&highlights, &r.PlaceID, &trailhead, &coordinates)
	if err != nil {
		return Row{}, err
	}
	r.Highlights = json.RawMessage(highlights)
	if len(trailhead) > 0 {
		var th Trailhead
		if json.Unmarshal(trailhead, &th) == nil {
			r.Trailhead = &th
		}
	}
	if len(coordinates) > 0 {
		// unreadable paths are dropped
		_ = json.Unmarshal(coordinates, &r.Coordinates)
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id string) (Row, error) {
	r, err := scanRow(s.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		return Row{}, apperr.Backend("load trail", db.NotFound(err))
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]Row, error) {
	rows, err := s.db.Query(ctx, selectColumns+` ORDER BY name`)
	if err != nil {
		return nil, apperr.Backend("list trails", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, apperr.Backend("list trails", err)
		}
		out = append(out, r)
	}
	return out, apperr.Backend("list trails", rows.Err())
}

// ParseInput validates a submitted trail form. Highlights are one per line.
// The trailhead is only kept when latitude, longitude and label are all given.
func ParseInput(f admin.Form) (Input, error) {
	var c admin.Checker
	in := Input{
		Name:        f.Value("name"),
		Description: f.Value("description"),
		Difficulty:  f.Value("difficulty"),
		Distance:    f.Value("distance"),
		Elevation:   f.Value("elevation"),
		Duration:    f.Value("duration"),
		Highlights:  splitLines(f.Value("highlights")),
	}

	if f.Value("trailhead_lat") != "" && f.Value("trailhead_lng") != "" && f.Value("trailhead_label") != "" {
		th := &Trailhead{
			Latitude:  c.Float(f, "trailhead_lat"),
			Longitude: c.Float(f, "trailhead_lng"),
			Label:     f.Value("trailhead_label"),
		}
		if th.Latitude < -90 || th.Latitude > 90 {
			c.Fail("trailhead_lat", "is out of range")
		}
		if th.Longitude < -180 || th.Longitude > 180 {
			c.Fail("trailhead_lng", "is out of range")
		}
		in.Trailhead = th
	}

	if raw := f.Value("coordinates"); raw != "" {
		if json.Valid([]byte(raw)) {
			in.Coordinates = json.RawMessage(raw)
			var path []geo.Point
			if json.Unmarshal(in.Coordinates, &path) == nil && !validPath(path) {
				c.Fail("coordinates", "has a point out of range")
			}
		} else {
			c.Message("Invalid coordinates JSON")
			c.Fail("coordinates", "must be valid JSON")
		}
	}

	c.Struct(in)
	return in, c.Err()
}

func validPath(path []geo.Point) bool {
	for _, p := range path {
		if !p.Valid() {
			return false
		}
	}
	return true
}

func splitLines(raw string) []string {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Create inserts the shadow place and then the trail. When the trail insert
// fails the place is removed again.
func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	address, at := in.Location()
	placeID, err := s.places.Create(ctx, place.Input{
		Name:      in.Name,
		Category:  kind,
		Address:   address,
		Latitude:  at.Lat,
		Longitude: at.Lng,
	})
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.Exec(ctx, `
		INSERT INTO trails (id, name, description, difficulty, distance, elevation, duration, highlights, place_id, trailhead, coordinates)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, id, in.Name, in.Description, in.Difficulty, in.Distance, in.Elevation, in.Duration,
		in.Highlights, placeID, in.Trailhead, in.Coordinates)
	if err == nil {
		return id, nil
	}

	compensated := true
	if rmErr := s.places.Remove(ctx, placeID); rmErr != nil {
		compensated = false
		s.log.Warn("shadow place left behind", zap.String("place_id", placeID), zap.Error(rmErr))
	}
	return "", &apperr.CascadeError{Step: "create trail", Err: err, Compensated: compensated}
}

// Update rewrites the trail and then moves its shadow place along with it.
// A failure on the place is logged only.
func (s *Service) Update(ctx context.Context, id string, in Input) error {
	var placeID string
	err := s.db.QueryRow(ctx, `
		UPDATE trails
		SET name=$2, description=$3, difficulty=$4, distance=$5, elevation=$6, duration=$7,
		    highlights=$8, trailhead=$9, coordinates=$10
		WHERE id=$1
		RETURNING place_id
	`, id, in.Name, in.Description, in.Difficulty, in.Distance, in.Elevation, in.Duration,
		in.Highlights, in.Trailhead, in.Coordinates).Scan(&placeID)
	if err != nil {
		return apperr.Backend("update trail", db.NotFound(err))
	}

	address, at := in.Location()
	if err := s.places.Relocate(ctx, placeID, in.Name, address, at.Lat, at.Lng); err != nil {
		s.log.Warn("shadow place not updated", zap.String("trail_id", id), zap.String("place_id", placeID), zap.Error(err))
	}
	return nil
}

// Delete removes the trail, then tries to remove its shadow place. The place
// stays when posts or events still point at it.
func (s *Service) Delete(ctx context.Context, id string) error {
	var placeID string
	err := s.db.QueryRow(ctx, `DELETE FROM trails WHERE id=$1 RETURNING place_id`, id).Scan(&placeID)
	if err != nil {
		return apperr.Backend("delete trail", db.NotFound(err))
	}
	if err := s.places.Delete(ctx, placeID); err != nil {
		s.log.Warn("shadow place not deleted", zap.String("trail_id", id), zap.String("place_id", placeID), zap.Error(err))
	}
	return nil
}
