package guide

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"welly-web/internal/admin"
	"welly-web/internal/place"
	"welly-web/internal/revalidate"
	"welly-web/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ events []revalidate.Event }

func (r *recorder) Notify(_ context.Context, events ...revalidate.Event) {
	r.events = append(r.events, events...)
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

const joinedPlace = `{"id":"pl1","name":"Olive","category":"cafe","address":"170 Cuba St","latitude":-41.29,"longitude":174.77,"google_place_id":null}`

func TestPlaceJoinAcceptsObjectOrArray(t *testing.T) {
	want := place.Row{ID: "pl1", Name: "Olive", Category: "cafe", Address: "170 Cuba St", Latitude: -41.29, Longitude: 174.77}

	var obj, arr PlaceJoin
	require.NoError(t, json.Unmarshal([]byte(joinedPlace), &obj))
	require.NoError(t, json.Unmarshal([]byte(" ["+joinedPlace+`,{"id":"pl2"}]`), &arr))

	if diff := cmp.Diff(want, obj.Row); diff != "" {
		t.Fatalf("object join mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, arr.Row); diff != "" {
		t.Fatalf("array join mismatch (-want +got):\n%s", diff)
	}

	var empty PlaceJoin
	require.NoError(t, json.Unmarshal([]byte(`[]`), &empty))
	assert.Equal(t, place.Row{}, empty.Row)
}

func TestPlaceFromRow(t *testing.T) {
	var row PlaceRow
	require.NoError(t, json.Unmarshal([]byte(`{"place_id":"pl1","sort_order":2,"note":null,"places":[`+joinedPlace+`]}`), &row))

	gp := PlaceFromRow(row)
	assert.Equal(t, "Olive", gp.Place.Name)
	assert.Equal(t, 2, gp.SortOrder)
	b, err := json.Marshal(gp)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "note")
	assert.NotContains(t, string(b), "googlePlaceId")
}

func TestFromRowOmitsNulls(t *testing.T) {
	b, err := json.Marshal(FromRow(Row{ID: "g1", Title: "Cuba St coffee"}))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "description")
	assert.NotContains(t, string(b), "coverImageUrl")
}

var guideCols = []string{"id", "user_id", "title", "description", "cover_image_url", "likes", "created_at"}

func TestGetNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM guides WHERE id = \$1`).WithArgs("x").WillReturnRows(pgxmock.NewRows(guideCols))

	_, err := NewService(mock).Get(context.Background(), "x")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestGet(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM guides`).WithArgs("g1").
		WillReturnRows(pgxmock.NewRows(guideCols).AddRow("g1", "u1", "Coffee", (*string)(nil), (*string)(nil), 5, time.Now()))

	r, err := NewService(mock).Get(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "u1", r.UserID)
}

func TestPlacesInSortOrder(t *testing.T) {
	mock := newMock(t)
	note := "Get the cheese scone"
	mock.ExpectQuery(`FROM guide_places gp\s+JOIN places p`).WithArgs("g1").
		WillReturnRows(pgxmock.NewRows([]string{"place_id", "sort_order", "note", "place"}).
			AddRow("pl1", 0, &note, []byte(joinedPlace)).
			AddRow("pl2", 1, (*string)(nil), []byte(`[{"id":"pl2","name":"Fidel's","category":"cafe","address":"234 Cuba St","latitude":-41.29,"longitude":174.77}]`)))

	rows, err := NewService(mock).Places(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Olive", rows[0].Places.Name)
	assert.Equal(t, "Fidel's", rows[1].Places.Name)
	assert.Equal(t, &note, rows[0].Note)
}

func TestParseInput(t *testing.T) {
	in, err := ParseInput(admin.Values{"title": "Coffee", "cover_image_url": ""})
	require.NoError(t, err)
	assert.Nil(t, in.CoverImageURL)
	assert.Nil(t, in.Description)

	_, err = ParseInput(admin.Values{"cover_image_url": "not a url"})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Title is required", ve.Message)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "cover_image_url")
}

func TestDeleteOrder(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM guide_places WHERE guide_id=\$1`).WithArgs("g1").WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM guides WHERE id=\$1`).WithArgs("g1").WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, NewService(mock).Delete(context.Background(), "g1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStopsWhenMembershipsFail(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM guide_places`).WithArgs("g1").WillReturnError(errDB)

	err := NewService(mock).Delete(context.Background(), "g1")
	var be *apperr.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "delete guide places", be.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAdminUpdateGuide(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE guides SET title=\$2`).
		WithArgs("g1", "Coffee crawl", (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rec := &recorder{}
	app := fiber.New()
	RegisterAdminRoutes(app.Group("/admin/guides"), NewService(mock), rec)

	resp := postForm(t, app, "/admin/guides/g1", url.Values{"title": {"Coffee crawl"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, []revalidate.Event{{Kind: "guide", ID: "g1"}}, rec.events)
}

func TestAdminUpdateGuideWithoutTitle(t *testing.T) {
	mock := newMock(t)
	app := fiber.New()
	RegisterAdminRoutes(app.Group("/admin/guides"), NewService(mock), &recorder{})

	resp := postForm(t, app, "/admin/guides/g1", url.Values{"title": {"  "}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Title is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteGuide(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM guide_places`).WithArgs("g1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM guides`).WithArgs("g1").WillReturnResult(pgxmock.NewResult("DELETE", 1))

	rec := &recorder{}
	app := fiber.New()
	RegisterAdminRoutes(app.Group("/admin/guides"), NewService(mock), rec)

	resp := postForm(t, app, "/admin/guides/g1/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Len(t, rec.events, 1)
}

var errDB = errors.New("db down")
