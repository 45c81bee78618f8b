// Package apperr defines the error kinds surfaced to HTTP callers.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingMessage     = errors.New("message is required")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInternal           = errors.New("internal error")
)

// InvalidInput wraps ErrInvalidInput with a user-facing detail.
func InvalidInput(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

// Status maps an error to the HTTP status code it should be reported with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMissingMessage):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns text that is safe to show to the user. Anything outside the
// taxonomy collapses to a generic message so internals do not leak.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
