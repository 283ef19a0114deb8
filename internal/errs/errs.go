// Package errs contains the error taxonomy shared by the core and its hosts.
package errs

import (
	"errors"
	"fmt"
)

// Sentinels used with errors.Is across layers.
var (
	// ErrValidation indicates malformed input to a create, update, reorder or import operation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced entity does not exist where a result is mandatory.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication or an invalid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a uniqueness violation (email or username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates the caller must slow down.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError describes why an input was rejected.
type ValidationError struct {
	Field  string // offending field path, e.g. "spaces[0].collections[1].width"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Invalidf builds a *ValidationError with a formatted reason.
func Invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// WithPrefix returns a copy of a validation error whose field is nested under prefix.
// Other errors are returned unchanged.
func WithPrefix(prefix string, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	field := prefix
	if ve.Field != "" {
		field = prefix + "." + ve.Field
	}
	return &ValidationError{Field: field, Reason: ve.Reason}
}

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Kind string // "space", "collection", "bookmark", "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a *NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
