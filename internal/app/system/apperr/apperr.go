// internal/app/system/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Handlers map these to HTTP status codes in system/respond;
// nothing below the handler layer knows about HTTP.
var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
	ErrRateLimited  = errors.New("rate_limited")
	ErrUpstream     = errors.New("upstream")
)

// Error is an error with a message that is safe to show to the user.
type Error struct {
	Err     error  // one of the sentinel kinds
	Message string // human-readable
	Field   string // optional offending field
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Validation reports an invalid field value.
func Validation(field, message string) *Error {
	return &Error{Err: ErrValidation, Message: message, Field: field}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return &Error{Err: ErrNotFound, Message: message}
}

// NotFoundID reports a missing resource by id.
func NotFoundID(resource, id string) *Error {
	return &Error{Err: ErrNotFound, Message: fmt.Sprintf("%s not found with id %s", resource, id)}
}

// Conflict reports a state conflict (duplicate, already submitted...).
func Conflict(message string) *Error {
	return &Error{Err: ErrConflict, Message: message}
}

// Forbidden reports that the caller lacks permission.
func Forbidden(message string) *Error {
	return &Error{Err: ErrForbidden, Message: message}
}

// Unauthorized reports a missing or invalid sign-in.
func Unauthorized(message string) *Error {
	return &Error{Err: ErrUnauthorized, Message: message}
}

// Unavailable reports a backend failure. The message is what the user sees;
// the cause is logged by the caller, never returned.
func Unavailable(message string) *Error {
	return &Error{Err: ErrUnavailable, Message: message}
}

// RateLimited reports too many requests from one client.
func RateLimited(message string) *Error {
	return &Error{Err: ErrRateLimited, Message: message}
}

// Upstream reports that an outside provider (mail, identity) rejected or
// failed a request.
func Upstream(message string) *Error {
	return &Error{Err: ErrUpstream, Message: message}
}

// Kind returns the machine-readable kind of err ("validation", "not_found", ...),
// or "internal" when err carries no known kind.
func Kind(err error) string {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrForbidden, ErrUnauthorized, ErrUnavailable, ErrRateLimited, ErrUpstream} {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return "internal"
}
