// Package admin holds the machinery shared by every dashboard surface: form
// input, validation, submission, list filtering and the view types rendered by
// the admin templates.
package admin

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Form is the submitted input of one admin action.
type Form interface {
	Value(key string) string
}

// Values is a Form backed by a map. Values are trimmed on read.
type Values map[string]string

func (v Values) Value(key string) string {
	return strings.TrimSpace(v[key])
}

// FormFromCtx collects url-encoded or multipart fields and route params.
// Route params win over body fields of the same name.
func FormFromCtx(c *fiber.Ctx) Values {
	v := Values{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		v[string(key)] = string(value)
	})
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		for key, vals := range mf.Value {
			if len(vals) > 0 {
				v[key] = vals[0]
			}
		}
	}
	for key, val := range c.AllParams() {
		v[key] = val
	}
	return v
}

// Submitter performs one admin write and returns where to go next.
type Submitter interface {
	Submit(ctx context.Context, form Form) (redirect string, err error)
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(ctx context.Context, form Form) (string, error)

func (f SubmitFunc) Submit(ctx context.Context, form Form) (string, error) {
	return f(ctx, form)
}

// Handle runs s against the request form. Success answers 303 to the returned
// location; failure answers a JSON error object and never redirects.
func Handle(s Submitter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		redirect, err := s.Submit(c.UserContext(), FormFromCtx(c))
		if err != nil {
			return WriteError(c, err)
		}
		return c.Redirect(redirect, fiber.StatusSeeOther)
	}
}
