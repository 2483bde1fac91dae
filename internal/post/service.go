package post

import (
	"context"

	"welly-web/internal/db"
	"welly-web/internal/shared/apperr"
)

const ShareLimit = 12

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

const selectColumns = `
	SELECT id, user_id, place_id, type, content, media_url, thumbnail_url,
	       media_width, media_height, likes, created_at
	FROM posts`

func scanRow(row interface{ Scan(...any) error }) (Row, error) {
	var r Row
	err := row.Scan(&r.ID, &r.UserID, &r.PlaceID, &r.Type, &r.Content, &r.MediaURL, &r.ThumbnailURL,
		&r.MediaWidth, &r.MediaHeight, &r.Likes, &r.CreatedAt)
	return r, err
}

// Get loads a post with its media.
func (s *Service) Get(ctx context.Context, id string) (Row, error) {
	r, err := scanRow(s.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		return Row{}, apperr.Backend("load post", db.NotFound(err))
	}
	rows := []Row{r}
	if err := s.attachMedia(ctx, rows); err != nil {
		return Row{}, err
	}
	return rows[0], nil
}

// ByPlace returns the most liked posts at a place.
func (s *Service) ByPlace(ctx context.Context, placeID string, limit int) ([]Row, error) {
	return s.query(ctx, "list place posts", selectColumns+` WHERE place_id = $1 ORDER BY likes DESC LIMIT $2`, placeID, limit)
}

// ByUser returns a user's latest posts.
func (s *Service) ByUser(ctx context.Context, userID string, limit int) ([]Row, error) {
	return s.query(ctx, "list user posts", selectColumns+` WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
}

func (s *Service) query(ctx context.Context, op, sql string, args ...any) ([]Row, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Backend(op, err)
	}
	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			rows.Close()
			return nil, apperr.Backend(op, err)
		}
		out = append(out, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperr.Backend(op, err)
	}
	if err := s.attachMedia(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachMedia loads media for every post in one query.
func (s *Service) attachMedia(ctx context.Context, posts []Row) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, media_url, thumbnail_url, media_type, media_width, media_height, sort_order
		FROM post_media WHERE post_id = ANY($1)
		ORDER BY sort_order
	`, ids)
	if err != nil {
		return apperr.Backend("load post media", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m MediaRow
		if err := rows.Scan(&m.ID, &m.PostID, &m.MediaURL, &m.ThumbnailURL, &m.MediaType, &m.MediaWidth, &m.MediaHeight, &m.SortOrder); err != nil {
			return apperr.Backend("load post media", err)
		}
		if i, ok := index[m.PostID]; ok {
			posts[i].Media = append(posts[i].Media, m)
		}
	}
	return apperr.Backend("load post media", rows.Err())
}

// List returns every post with author and place names for the dashboard.
func (s *Service) List(ctx context.Context) ([]ListItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.content, p.type, p.likes, p.created_at, p.user_id, p.place_id, u.username, pl.name
		FROM posts p
		LEFT JOIN profiles u ON u.id = p.user_id
		LEFT JOIN places pl ON pl.id = p.place_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, apperr.Backend("list posts", err)
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var it ListItem
		if err := rows.Scan(&it.ID, &it.Content, &it.Type, &it.Likes, &it.CreatedAt, &it.UserID, &it.PlaceID, &it.Username, &it.PlaceName); err != nil {
			return nil, apperr.Backend("list posts", err)
		}
		out = append(out, it)
	}
	return out, apperr.Backend("list posts", rows.Err())
}

// Delete removes the post's media and then the post. A failed media delete
// aborts before the post is touched.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM post_media WHERE post_id=$1`, id); err != nil {
		return apperr.Backend("delete post media", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id); err != nil {
		return apperr.Backend("delete post", err)
	}
	return nil
}
