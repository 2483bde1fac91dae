// Package site serves the marketing pages and the small endpoints the native
// app depends on: the Instagram OAuth bounce and apple-app-site-association.
package site

import (
	"net/url"
	"strings"

	"welly-web/internal/deeplink"
	"welly-web/internal/share"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

type Options struct {
	Site        share.Site
	StoreURL    string
	AppleTeamID string
	BundleID    string
}

type Handler struct {
	opts  Options
	theme ThemeStore
}

func NewHandler(opts Options, theme ThemeStore) *Handler {
	return &Handler{opts: opts, theme: theme}
}

func (h *Handler) meta(path, title, description string) share.Metadata {
	return share.Metadata{
		Title:       title,
		Description: description,
		URL:         h.opts.Site.URL + path,
		OGType:      "website",
		TwitterCard: "summary_large_image",
	}
}

func (h *Handler) page(name, path, title, description string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render(name, fiber.Map{
			"Meta":     h.meta(path, title, description),
			"StoreURL": h.opts.StoreURL,
		}, layout)
	}
}

func RegisterRoutes(r fiber.Router, h *Handler) {
	r.Get("/", h.page("site/home", "/", "Welly - Discover Wellington",
		"Follow locals, find the best spots, and see what's happening in Wellington."))
	r.Get("/privacy", h.page("site/privacy", "/privacy", "Privacy Policy - Welly", "Privacy Policy for the Welly app."))
	r.Get("/support", h.page("site/support", "/support", "Support - Welly", "Get help with the Welly app."))

	r.Post("/theme", func(c *fiber.Ctx) error {
		h.theme.Toggle(c)
		return c.Redirect(backTo(c.Get(fiber.HeaderReferer)), fiber.StatusSeeOther)
	})

	r.Get("/auth/instagram/callback", func(c *fiber.Ctx) error {
		var link string
		if code := c.Query("code"); code != "" {
			link = deeplink.InstagramCallback(code)
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Render("instagram_callback", fiber.Map{"DeepLink": link})
	})

	r.Get("/.well-known/apple-app-site-association", func(c *fiber.Ctx) error {
		return c.JSON(h.AppSiteAssociation())
	})
}

// backTo keeps the redirect after a theme toggle on this site.
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
