package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	CookieName = "welly_admin"
	LoginPath  = "/admin/login"
)

// RequireAdmin admits requests carrying a valid session cookie whose user is
// still an admin, and stores user_id in locals. Everyone else is sent to the
// login page.
func RequireAdmin(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := svc.ValidateToken(c.Cookies(CookieName))
		if err != nil {
			return c.Redirect(LoginPath, fiber.StatusSeeOther)
		}

		ok, err := svc.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return err
		}
		if !ok {
			clearSession(c)
			return c.Redirect(LoginPath+"?error=not_admin", fiber.StatusSeeOther)
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

func setSession(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/admin",
		MaxAge:   int(sessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/admin",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
