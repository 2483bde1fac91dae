package share

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"welly-web/internal/deeplink"
	"welly-web/internal/handoff"
	"welly-web/internal/logging"
	"welly-web/internal/revalidate"
	"welly-web/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const layout = "layouts/main"

// Freshness per kind. Admin writes evict earlier through the revalidate hub.
var ttls = map[deeplink.Kind]time.Duration{
	deeplink.KindPost:  time.Minute,
	deeplink.KindGuide: time.Minute,
	deeplink.KindPlace: time.Hour,
	deeplink.KindEvent: 5 * time.Minute,
	deeplink.KindTrail: 5 * time.Minute,
	deeplink.KindUser:  5 * time.Minute,
}

type Options struct {
	Site   Site
	Widget handoff.Widget
	Stores handoff.Stores
}

type Handler struct {
	resolver *Resolver
	cache    *revalidate.PageCache
	opts     Options
	log      *zap.Logger
}

func NewHandler(resolver *Resolver, cache *revalidate.PageCache, opts Options, log *zap.Logger) *Handler {
	return &Handler{resolver: resolver, cache: cache, opts: opts, log: logging.OrNop(log)}
}

// Load returns the page for (kind, id), from the page cache when fresh.
func (h *Handler) Load(ctx context.Context, kind deeplink.Kind, id string) (Page, error) {
	key := revalidate.PageKey(string(kind), id)
	if body, ok := h.cache.Get(ctx, key); ok {
		var page Page
		if err := json.Unmarshal(body, &page); err == nil {
			return page, nil
		}
		h.log.Warn("dropping unreadable cached page", zap.String("key", key))
	}

	page, err := h.resolver.Resolve(ctx, kind, id)
	if err != nil {
		return Page{}, err
	}
	if body, err := json.Marshal(page); err == nil {
		if err := h.cache.Set(ctx, key, body, ttls[kind]); err != nil {
			h.log.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return page, nil
}

// RegisterRoutes mounts GET /<kind>/:id for every shareable kind.
func RegisterRoutes(r fiber.Router, h *Handler) {
	for _, kind := range deeplink.Kinds {
		r.Get("/"+string(kind)+"/:id", h.page(kind))
	}
}

func (h *Handler) page(kind deeplink.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		page, err := h.Load(c.UserContext(), kind, id)
		if errors.Is(err, apperr.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).Render("not_found", fiber.Map{
				"Meta": NotFound(kind),
				"Kind": string(kind),
			}, layout)
		}
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderCacheControl, "public, max-age=0, s-maxage="+strconv.Itoa(int(ttls[kind].Seconds())))
		return c.Render("share/"+string(kind), fiber.Map{
			"Page":    page,
			"Meta":    Build(page, h.opts.Site),
			"Handoff": h.opts.Widget.Attrs(deeplink.For(kind, id), h.opts.Stores, c.Get(fiber.HeaderUserAgent)),
			"Site":    h.opts.Site,
		}, layout)
	}
}
