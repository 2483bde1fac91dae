package apperr

import (
	"errors"
	"testing"
)

func TestBackendWrapsOnlyUnclassified(t *testing.T) {
	raw := errors.New("connection reset")
	wrapped := Backend("load place", raw)

	var be *BackendError
	if !errors.As(wrapped, &be) {
		t.Fatalf("expected backend error")
	}
	if !errors.Is(wrapped, raw) {
		t.Fatalf("expected unwrap to raw error")
	}
	if wrapped.Error() != "load place: connection reset" {
		t.Fatalf("unexpected message: %s", wrapped.Error())
	}

	if Backend("x", ErrNotFound) != ErrNotFound {
		t.Fatalf("not found must pass through")
	}
	ve := Invalid("name", "required")
	if Backend("x", ve) != error(ve) {
		t.Fatalf("validation must pass through")
	}
	if Backend("x", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Message: "bad", Fields: map[string]string{"lng": "x", "lat": "y"}}
	if err.Error() != "bad (lat, lng)" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if (&ValidationError{Message: "only"}).Error() != "only" {
		t.Fatalf("unexpected bare message")
	}
}

func TestCascadeError(t *testing.T) {
	inner := errors.New("insert failed")
	err := &CascadeError{Step: "create trail", Err: inner, Compensated: true}
	if err.Error() != "Failed to create trail: insert failed" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Fatalf("expected unwrap")
	}
}
