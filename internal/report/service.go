package report

import (
	"context"

	"welly-web/internal/admin"
	"welly-web/internal/db"
	"welly-web/internal/shared/apperr"
)

const listLimit = 200

// PostDeleter removes a post together with its media.
type PostDeleter interface {
	Delete(ctx context.Context, id string) error
}

type Service struct {
	db    db.Querier
	posts PostDeleter
}

func NewService(db db.Querier, posts PostDeleter) *Service {
	return &Service{db: db, posts: posts}
}

const selectColumns = `
	SELECT r.id, r.reporter_id, r.reported_user_id, r.content_type, r.content_id, r.reason, r.details,
	       r.status, r.admin_notes, r.resolved_at, r.created_at, reporter.username, reported.username
	FROM reports r
	LEFT JOIN profiles reporter ON reporter.id = r.reporter_id
	LEFT JOIN profiles reported ON reported.id = r.reported_user_id`

func scanRow(row interface{ Scan(...any) error }) (ListRow, error) {
	var r ListRow
	err := row.Scan(&r.ID, &r.ReporterID, &r.ReportedUserID, &r.ContentType, &r.ContentID, &r.Reason, &r.Details,
		&r.Status, &r.AdminNotes, &r.ResolvedAt, &r.CreatedAt, &r.ReporterUsername, &r.ReportedUsername)
	return r, err
}

func (s *Service) Get(ctx context.Context, id string) (ListRow, error) {
	r, err := scanRow(s.db.QueryRow(ctx, selectColumns+` WHERE r.id = $1`, id))
	if err != nil {
		return ListRow{}, apperr.Backend("load report", db.NotFound(err))
	}
	return r, nil
}

// List returns the latest reports, newest first.
func (s *Service) List(ctx context.Context) ([]ListRow, error) {
	rows, err := s.db.Query(ctx, selectColumns+` ORDER BY r.created_at DESC LIMIT $1`, listLimit)
	if err != nil {
		return nil, apperr.Backend("list reports", err)
	}
	defer rows.Close()

	var out []ListRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, apperr.Backend("list reports", err)
		}
		out = append(out, r)
	}
	return out, apperr.Backend("list reports", rows.Err())
}

func ParseStatus(f admin.Form) (StatusInput, error) {
	var c admin.Checker
	in := StatusInput{
		Status:     f.Value("status"),
		AdminNotes: admin.Optional(f.Value("admin_notes")),
	}
	c.Struct(in)
	return in, c.Err()
}

// UpdateStatus moves a report. Notes are only replaced when given, and
// resolved_at is stamped when the report is closed.
func (s *Service) UpdateStatus(ctx context.Context, id string, in StatusInput) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE reports
		SET status=$2,
		    admin_notes=COALESCE($3, admin_notes),
		    resolved_at=CASE WHEN $4 THEN now() ELSE resolved_at END
		WHERE id=$1
	`, id, in.Status, in.AdminNotes, Resolves(in.Status))
	if err != nil {
		return apperr.Backend("update report", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM reports WHERE id=$1`, id)
	return apperr.Backend("delete report", err)
}

// Resolve deletes the reported post or comment, then closes the report as
// reviewed. Reports about a user delete nothing.
func (s *Service) Resolve(ctx context.Context, id string) (Row, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return Row{}, err
	}

	if r.ContentID != nil && *r.ContentID != "" {
		switch r.ContentType {
		case "post":
			err = s.posts.Delete(ctx, *r.ContentID)
		case "comment":
			_, err = s.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, *r.ContentID)
			err = apperr.Backend("delete comment", err)
		}
		if err != nil {
			return Row{}, err
		}
	}

	_, err = s.db.Exec(ctx, `
		UPDATE reports SET status=$2, admin_notes=$3, resolved_at=now() WHERE id=$1
	`, id, StatusReviewed, resolvedNote)
	if err != nil {
		return Row{}, apperr.Backend("update report", err)
	}
	return r.Row, nil
}
