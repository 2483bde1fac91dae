package site

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ThemeStore keeps the visitor's light/dark preference in a cookie.
type ThemeStore struct {
	Cookie string
	MaxAge time.Duration
}

func NewThemeStore() ThemeStore {
	return ThemeStore{Cookie: "theme", MaxAge: 365 * 24 * time.Hour}
}

// Get returns the stored theme, or "" when none was chosen.
func (s ThemeStore) Get(c *fiber.Ctx) string {
	switch v := c.Cookies(s.Cookie); v {
	case ThemeLight, ThemeDark:
		return v
	}
	return ""
}

func (s ThemeStore) Set(c *fiber.Ctx, theme string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Cookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   int(s.MaxAge.Seconds()),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Toggle flips the stored theme and returns the new value. No preference
// counts as light.
func (s ThemeStore) Toggle(c *fiber.Ctx) string {
	next := ThemeDark
	if s.Get(c) == ThemeDark {
		next = ThemeLight
	}
	s.Set(c, next)
	return next
}

// Middleware exposes the theme to templates as .Theme.
func (s ThemeStore) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if theme := s.Get(c); theme != "" {
			c.Locals("Theme", theme)
		}
		return c.Next()
	}
}
