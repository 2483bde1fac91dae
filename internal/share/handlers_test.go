package share

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"welly-web/internal/deeplink"
	"welly-web/internal/handoff"
	"welly-web/internal/revalidate"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViews = fstest.MapFS{
	"layouts/main.html": {Data: []byte(`<title>{{.Meta.Title}}</title>{{embed}}`)},
	"not_found.html":    {Data: []byte(`missing {{.Kind}}`)},
	"share/post.html":   {Data: []byte(`post {{.Page.Post.Content}} store={{.Handoff.StoreURL}} link={{.Handoff.DeepLink}}`)},
	"share/place.html":  {Data: []byte(`place {{.Page.Place.Name}} posts={{len .Page.Posts}}`)},
	"share/event.html":  {Data: []byte(`event`)},
	"share/trail.html":  {Data: []byte(`trail`)},
	"share/guide.html":  {Data: []byte(`guide`)},
	"share/user.html":   {Data: []byte(`user`)},
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func newApp(t *testing.T, src Sources, cache *revalidate.PageCache) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{Views: html.NewFileSystem(http.FS(testViews), ".html")})
	h := NewHandler(NewResolver(src, nil), cache, Options{
		Site:   site,
		Widget: handoff.Widget{Timeout: 1500 * time.Millisecond},
		Stores: handoff.Stores{AppStoreURL: "https://apps.apple.com/app/id1", PlayStoreURL: "https://play.google.com/store/apps/details?id=x"},
	}, nil)
	RegisterRoutes(app, h)
	return app
}

func get(t *testing.T, app *fiber.App, path, ua string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestSharePageRenders(t *testing.T) {
	src, _, _, _ := newSources()
	app := newApp(t, src, nil)

	resp, body := get(t, app, "/post/p1", "Mozilla/5.0 (iPhone)")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<title>&#34;Best flat white in town&#34; - Kiri on Welly</title>")
	assert.Contains(t, body, "store=https://apps.apple.com/app/id1")
	assert.Contains(t, body, "link=wellington:///feed/post/p1")
	assert.Equal(t, "public, max-age=0, s-maxage=60", resp.Header.Get("Cache-Control"))
}

func TestSharePageAndroidStore(t *testing.T) {
	src, _, _, _ := newSources()
	app := newApp(t, src, nil)

	_, body := get(t, app, "/post/p1", "Mozilla/5.0 (Linux; Android 14)")
	assert.Contains(t, body, "store=https://play.google.com/store/apps/details?id=x")
}

func TestSharePageNotFound(t *testing.T) {
	src, _, _, _ := newSources()
	app := newApp(t, src, nil)

	for _, kind := range deeplink.Kinds {
		resp, body := get(t, app, "/"+string(kind)+"/nope", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "kind %s", kind)
		assert.Contains(t, body, "missing "+string(kind))
	}
}

func TestSharePageBackendError(t *testing.T) {
	src, _, places, _ := newSources()
	places.err = errBoom
	app := newApp(t, src, nil)

	resp, _ := get(t, app, "/place/pl1", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestSharePageIsCachedUntilEvicted(t *testing.T) {
	mr, rdb := setupRedis(t)
	cache := revalidate.NewPageCache(rdb)
	src, posts, _, _ := newSources()
	app := newApp(t, src, cache)

	get(t, app, "/post/p1", "")
	get(t, app, "/post/p1", "")
	assert.Equal(t, int32(1), posts.calls.Load())
	assert.True(t, mr.Exists(revalidate.PageKey("post", "p1")))
	assert.Equal(t, time.Minute, mr.TTL(revalidate.PageKey("post", "p1")))

	require.NoError(t, cache.Evict(context.Background(), revalidate.Event{Kind: "post", ID: "p1"}))
	get(t, app, "/post/p1", "")
	assert.Equal(t, int32(2), posts.calls.Load())
}

func TestPlaceTTL(t *testing.T) {
	mr, rdb := setupRedis(t)
	src, _, _, _ := newSources()
	app := newApp(t, src, revalidate.NewPageCache(rdb))

	resp, body := get(t, app, "/place/pl1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "place Olive posts=0")
	assert.Equal(t, time.Hour, mr.TTL(revalidate.PageKey("place", "pl1")))
}

func TestNotFoundIsNotCached(t *testing.T) {
	mr, rdb := setupRedis(t)
	src, _, _, _ := newSources()
	app := newApp(t, src, revalidate.NewPageCache(rdb))

	get(t, app, "/event/nope", "")
	assert.False(t, mr.Exists(revalidate.PageKey("event", "nope")))
}
