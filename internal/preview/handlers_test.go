package preview

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestOGHandlerServesPNG(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/api"), NewService(nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/og?title=Cuba+Dupa&subtitle=Te+Aro&type=event", nil)
	resp, err := app.Test(req, -1)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("og status: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != cacheControl {
		t.Fatalf("unexpected cache control %q", cc)
	}
	body, _ := io.ReadAll(resp.Body)
	want, _ := Render(Params{Title: "Cuba Dupa", Subtitle: "Te Aro", Kind: "event"})
	if string(body) != string(want) {
		t.Fatalf("handler output differs from Render")
	}
}

func TestOGHandlerUnknownType(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/api"), NewService(nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/og?type=bogus", nil)
	resp, err := app.Test(req, -1)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("unknown type should still render: %v", err)
	}
}

func TestOGHandlerRenderError(t *testing.T) {
	orig := renderFn
	renderFn = func(Params) ([]byte, error) { return nil, errRender }
	defer func() { renderFn = orig }()

	app := fiber.New()
	RegisterRoutes(app.Group("/api"), NewService(nil, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/og", nil))
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected internal error")
	}
}

func TestServiceCachesRender(t *testing.T) {
	mr, rdb := setupRedis(t)

	calls := 0
	orig := renderFn
	renderFn = func(p Params) ([]byte, error) {
		calls++
		return []byte("png:" + p.Normalize().Title), nil
	}
	defer func() { renderFn = orig }()

	svc := NewService(rdb, nil)
	p := Params{Title: "Oriental Bay"}
	for i := 0; i < 3; i++ {
		b, err := svc.Image(context.Background(), p)
		if err != nil || string(b) != "png:Oriental Bay" {
			t.Fatalf("image: %q %v", b, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one render, got %d", calls)
	}
	if !mr.Exists(cacheKey(p)) {
		t.Fatalf("expected cached entry under %s", cacheKey(p))
	}
	if ttl := mr.TTL(cacheKey(p)); ttl != cacheTTL {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestServiceCacheWriteFailureStillServes(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	orig := renderFn
	renderFn = func(Params) ([]byte, error) { return []byte("png"), nil }
	defer func() { renderFn = orig }()

	b, err := NewService(rdb, nil).Image(context.Background(), Params{})
	if err != nil || string(b) != "png" {
		t.Fatalf("expected render despite cache outage: %v", err)
	}
}

var errRender = errors.New("render failed")
