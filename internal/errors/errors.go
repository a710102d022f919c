// Package errors defines the error kinds shared across all layers and
// their mapping to HTTP status codes.

package errors

import (
	"errors"
	"net/http"
)

var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrBadParameter  = errors.New("bad parameter")

	// Auth errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrBadToken         = errors.New("invalid token")
	ErrPasswordMismatch = errors.New("password mismatch")

	// Streaming errors
	ErrInvalidRange = errors.New("invalid range")
	ErrDataNotFound = errors.New("resource data not found")
)

// Status maps an error to the HTTP status code reported to the client.
// Unrecognized errors map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrBadParameter), errors.Is(err, ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, ErrBadToken), errors.Is(err, ErrPasswordMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDataNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRange):
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
