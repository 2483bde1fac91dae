package admin

import (
	"errors"

	"welly-web/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the field-level error object returned by failed submissions.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Status maps an error from the apperr taxonomy onto an HTTP status.
func Status(err error) int {
	var (
		ve *apperr.ValidationError
		ic *apperr.IntegrityConflict
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &ic):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// Body builds the JSON error object for err.
func Body(err error) ErrorBody {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ErrorBody{Error: ve.Message, Fields: ve.Fields}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ErrorBody{Error: fe.Message}
	}
	return ErrorBody{Error: err.Error()}
}

func WriteError(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(Body(err))
}
