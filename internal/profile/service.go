package profile

import (
	"context"

	"welly-web/internal/db"
	"welly-web/internal/shared/apperr"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

const selectColumns = `
	SELECT id, username, display_name, COALESCE(avatar_url, ''), bio, is_admin,
	       COALESCE(profile_visibility, 'public'), created_at
	FROM profiles`

func scanRow(row interface{ Scan(...any) error }) (Row, error) {
	var r Row
	err := row.Scan(&r.ID, &r.Username, &r.DisplayName, &r.AvatarURL, &r.Bio, &r.IsAdmin, &r.ProfileVisibility, &r.CreatedAt)
	return r, err
}

func (s *Service) Get(ctx context.Context, id string) (Row, error) {
	r, err := scanRow(s.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		return Row{}, apperr.Backend("load profile", db.NotFound(err))
	}
	return r, nil
}

// ByIDs loads the given profiles in one query. Unknown ids are skipped.
func (s *Service) ByIDs(ctx context.Context, ids []string) ([]Row, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.query(ctx, "load profiles", selectColumns+` WHERE id = ANY($1)`, ids)
}

func (s *Service) List(ctx context.Context) ([]Row, error) {
	return s.query(ctx, "list profiles", selectColumns+` ORDER BY username`)
}

func (s *Service) query(ctx context.Context, op, sql string, args ...any) ([]Row, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Backend(op, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, apperr.Backend(op, err)
		}
		out = append(out, r)
	}
	return out, apperr.Backend(op, rows.Err())
}

func (s *Service) FollowerCount(ctx context.Context, id string) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM follows WHERE following_id = $1`, id).Scan(&n); err != nil {
		return 0, apperr.Backend("count followers", err)
	}
	return n, nil
}
