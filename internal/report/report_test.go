package report

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"welly-web/internal/admin"
	"welly-web/internal/revalidate"
	"welly-web/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ events []revalidate.Event }

func (r *recorder) Notify(_ context.Context, events ...revalidate.Event) {
	r.events = append(r.events, events...)
}

type fakePosts struct {
	deleted []string
	err     error
}

func (f *fakePosts) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

var reportCols = []string{"id", "reporter_id", "reported_user_id", "content_type", "content_id", "reason", "details",
	"status", "admin_notes", "resolved_at", "created_at", "reporter", "reported"}

func reportRow(contentType string, contentID *string) *pgxmock.Rows {
	return pgxmock.NewRows(reportCols).AddRow("r1", "u1", "u2", contentType, contentID, "spam", (*string)(nil),
		StatusPending, (*string)(nil), (*time.Time)(nil), time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), strPtr("kiri"), (*string)(nil))
}

func TestFromRowUnknownUsers(t *testing.T) {
	r := FromRow(ListRow{Row: Row{ID: "r1", Status: StatusPending}, ReporterUsername: strPtr("kiri")})
	assert.Equal(t, "kiri", r.ReporterUsername)
	assert.Equal(t, "unknown", r.ReportedUsername)
}

func TestResolves(t *testing.T) {
	assert.True(t, Resolves(StatusReviewed))
	assert.True(t, Resolves(StatusDismissed))
	assert.False(t, Resolves(StatusPending))
}

func TestListJoinsUsernames(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`LEFT JOIN profiles reporter .* ORDER BY r.created_at DESC LIMIT \$1`).
		WithArgs(200).
		WillReturnRows(reportRow("post", strPtr("p1")))

	rows, err := NewService(mock, &fakePosts{}).List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	r := FromRow(rows[0])
	assert.Equal(t, "kiri", r.ReporterUsername)
	assert.Equal(t, "unknown", r.ReportedUsername)
}

func TestParseStatus(t *testing.T) {
	in, err := ParseStatus(admin.Values{"status": "dismissed"})
	require.NoError(t, err)
	assert.Nil(t, in.AdminNotes)

	_, err = ParseStatus(admin.Values{"status": "closed"})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "status")
}

func TestUpdateStatusStampsResolution(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE reports`).
		WithArgs("r1", StatusDismissed, strPtr("duplicate"), true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE reports`).
		WithArgs("r1", StatusPending, (*string)(nil), false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock, &fakePosts{})
	require.NoError(t, svc.UpdateStatus(context.Background(), "r1", StatusInput{Status: StatusDismissed, AdminNotes: strPtr("duplicate")}))
	require.NoError(t, svc.UpdateStatus(context.Background(), "r1", StatusInput{Status: StatusPending}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE reports`).WithArgs("r9", StatusReviewed, (*string)(nil), pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewService(mock, &fakePosts{}).UpdateStatus(context.Background(), "r9", StatusInput{Status: StatusReviewed})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolvePostDeletesThenMarks(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE r.id = \$1`).WithArgs("r1").WillReturnRows(reportRow("post", strPtr("p1")))
	mock.ExpectExec(`UPDATE reports SET status=\$2, admin_notes=\$3, resolved_at=now\(\)`).
		WithArgs("r1", StatusReviewed, "Reported content deleted").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	posts := &fakePosts{}
	r, err := NewService(mock, posts).Resolve(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, posts.deleted)
	assert.Equal(t, "post", r.ContentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveComment(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE r.id = \$1`).WithArgs("r1").WillReturnRows(reportRow("comment", strPtr("c1")))
	mock.ExpectExec(`DELETE FROM comments WHERE id=\$1`).WithArgs("c1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`UPDATE reports`).WithArgs("r1", StatusReviewed, "Reported content deleted").WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	posts := &fakePosts{}
	_, err := NewService(mock, posts).Resolve(context.Background(), "r1")
	require.NoError(t, err)
	assert.Empty(t, posts.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserDeletesNothing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE r.id = \$1`).WithArgs("r1").WillReturnRows(reportRow("user", strPtr("u2")))
	mock.ExpectExec(`UPDATE reports`).WithArgs("r1", StatusReviewed, "Reported content deleted").WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	posts := &fakePosts{}
	_, err := NewService(mock, posts).Resolve(context.Background(), "r1")
	require.NoError(t, err)
	assert.Empty(t, posts.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveKeepsReportOpenWhenDeleteFails(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE r.id = \$1`).WithArgs("r1").WillReturnRows(reportRow("post", strPtr("p1")))

	_, err := NewService(mock, &fakePosts{err: errDB}).Resolve(context.Background(), "r1")
	require.ErrorIs(t, err, errDB)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActions(t *testing.T) {
	pending := actions(Report{ID: "r1", Status: StatusPending, ContentType: "post", ContentID: strPtr("p1")})
	labels := make([]string, 0, len(pending))
	for _, a := range pending {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{"Mark reviewed", "Dismiss", "Delete post", "Delete report"}, labels)

	closed := actions(Report{ID: "r1", Status: StatusReviewed, ContentType: "user"})
	assert.Equal(t, "Reopen", closed[0].Label)
	assert.Equal(t, map[string]string{"status": StatusPending}, closed[0].Hidden)
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAdminResolveNotifiesPost(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE r.id = \$1`).WithArgs("r1").WillReturnRows(reportRow("post", strPtr("p1")))
	mock.ExpectExec(`UPDATE reports`).WithArgs("r1", StatusReviewed, "Reported content deleted").WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rec := &recorder{}
	app := fiber.New()
	RegisterAdminRoutes(app.Group("/admin/reports"), NewService(mock, &fakePosts{}), rec)

	resp := postForm(t, app, "/admin/reports/r1/resolve", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/reports", resp.Header.Get("Location"))
	assert.Equal(t, []revalidate.Event{{Kind: "post", ID: "p1"}}, rec.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminStatusValidation(t *testing.T) {
	mock := newMock(t)
	app := fiber.New()
	RegisterAdminRoutes(app.Group("/admin/reports"), NewService(mock, &fakePosts{}), &recorder{})

	resp := postForm(t, app, "/admin/reports/r1/status", url.Values{"status": {"archived"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteReport(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM reports WHERE id=\$1`).WithArgs("r1").WillReturnResult(pgxmock.NewResult("DELETE", 1))

	app := fiber.New()
	RegisterAdminRoutes(app.Group("/admin/reports"), NewService(mock, &fakePosts{}), &recorder{})

	resp := postForm(t, app, "/admin/reports/r1/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

var errDB = errors.New("db down")
