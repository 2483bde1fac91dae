// Package apperr holds the error taxonomy shared by the public pages and the
// admin surfaces.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound means the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports field-level problems found before any write.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(names, ", "))
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{
		Message: "All required fields must be filled",
		Fields:  map[string]string{field: reason},
	}
}

// IntegrityConflict means dependent rows block the requested write.
type IntegrityConflict struct {
	Message string
}

func (e *IntegrityConflict) Error() string { return e.Message }

// BackendError wraps a failure reported by the store itself.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Backend wraps err unless it is nil or already classified.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		ic *IntegrityConflict
		be *BackendError
		ce *CascadeError
	)
	if errors.Is(err, ErrNotFound) || errors.As(err, &ve) || errors.As(err, &ic) || errors.As(err, &be) || errors.As(err, &ce) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}

// CascadeError reports a multi-step write where a later step failed after an
// earlier one succeeded. Compensated is true when the earlier step was undone.
type CascadeError struct {
	Step        string
	Err         error
	Compensated bool
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("Failed to %s: %v", e.Step, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }
