package admin

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"welly-web/internal/shared/apperr"

	"github.com/go-playground/validator/v10"
)

const requiredMessage = "All required fields must be filled"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their form name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Checker accumulates field errors for a single submission.
type Checker struct {
	message string
	fields  map[string]string
}

// Fail records a field error. The first message given wins.
func (c *Checker) Fail(field, reason string) {
	if c.fields == nil {
		c.fields = map[string]string{}
	}
	if _, ok := c.fields[field]; !ok {
		c.fields[field] = reason
	}
}

// Message overrides the summary line of the resulting error.
func (c *Checker) Message(msg string) {
	if c.message == "" {
		c.message = msg
	}
}

// Struct runs the validate tags of v.
func (c *Checker) Struct(v any) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		c.Fail("form", err.Error())
		return
	}
	for _, fe := range ves {
		c.Fail(fe.Field(), reason(fe))
	}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "url", "http_url":
		return "must be a URL"
	case "datetime":
		return "must match " + fe.Param()
	default:
		return "is invalid"
	}
}

// Float parses a required finite number.
func (c *Checker) Float(f Form, key string) float64 {
	raw := f.Value(key)
	if raw == "" {
		c.Fail(key, "is required")
		return 0
	}
	v, ok := parseFinite(raw)
	if !ok {
		c.Fail(key, "must be a number")
	}
	return v
}

// OptionalFloat parses a finite number, returning nil when the field is empty.
func (c *Checker) OptionalFloat(f Form, key string) *float64 {
	raw := f.Value(key)
	if raw == "" {
		return nil
	}
	v, ok := parseFinite(raw)
	if !ok {
		c.Fail(key, "must be a number")
		return nil
	}
	return &v
}

func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Err returns nil or a *apperr.ValidationError carrying every failed field.
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	msg := c.message
	if msg == "" {
		msg = requiredMessage
	}
	return &apperr.ValidationError{Message: msg, Fields: c.fields}
}

// Optional returns nil for an empty string.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
