package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/admin"

// RegisterRoutes mounts the login and logout endpoints. They sit outside
// RequireAdmin. secure marks the session cookie HTTPS-only.
func RegisterRoutes(r fiber.Router, svc *Service, secure bool) {
	r.Get("/login", func(c *fiber.Ctx) error {
		var msg string
		if c.Query("error") == "not_admin" {
			msg = messages[ErrNotAdmin]
		}
		return renderLogin(c, fiber.StatusOK, "", msg)
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return renderLogin(c, fiber.StatusBadRequest, "", messages[ErrMissingCredentials])
		}

		_, token, err := svc.Login(c.UserContext(), req)
		switch {
		case errors.Is(err, ErrMissingCredentials):
			return renderLogin(c, fiber.StatusUnprocessableEntity, req.Email, messages[err])
		case errors.Is(err, ErrInvalidCredentials):
			return renderLogin(c, fiber.StatusUnauthorized, req.Email, messages[err])
		case errors.Is(err, ErrNotAdmin):
			return renderLogin(c, fiber.StatusForbidden, req.Email, messages[err])
		case err != nil:
			return err
		}

		setSession(c, token, secure)
		return c.Redirect("/admin", fiber.StatusSeeOther)
	})

	r.Post("/logout", func(c *fiber.Ctx) error {
		clearSession(c)
		return c.Redirect(LoginPath, fiber.StatusSeeOther)
	})
}

func renderLogin(c *fiber.Ctx, status int, email, msg string) error {
	return c.Status(status).Render("admin/login", fiber.Map{
		"Page":  fiber.Map{"Title": "Sign in"},
		"Email": email,
		"Error": msg,
	}, layout)
}
