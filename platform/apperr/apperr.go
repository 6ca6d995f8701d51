// Package apperr defines the typed domain errors used across the application.
// Services return these errors and the HTTP layer maps them to status codes
// and stable machine-readable error codes that clients branch on.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind categorizes an error for transport mapping.
type Kind int

const (
	// KindUnknown is the zero kind when none was assigned.
	KindUnknown Kind = iota
	// KindNotFound marks a missing resource (or one outside the caller's tenant).
	KindNotFound
	// KindValidation marks input that failed business or field validation.
	KindValidation
	// KindConflict marks a clash with existing state (duplicate, concurrent mutation).
	KindConflict
	// KindForbidden marks an action the authenticated caller may not perform.
	KindForbidden
	// KindUnauthorized marks missing or failed authentication.
	KindUnauthorized
	// KindBadRequest marks a malformed request before validation even applies.
	KindBadRequest
	// KindTooManyRequests marks a rate-limited caller.
	KindTooManyRequests
	// KindInternal marks an unexpected failure (SQL errors, broken invariants).
	KindInternal
	// KindGone marks a resource that existed but is no longer available.
	KindGone
)

// Error is the domain error type. Message is safe to show to API clients;
// Err carries the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // operation that failed (optional)
	Err     error       // underlying cause (optional)
	Details interface{} // field-level detail for the response (optional)
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindInternal:
		return http.StatusInternalServerError
	case KindGone:
		return http.StatusGone
	default:
		return http.StatusBadRequest
	}
}

// Code returns the stable taxonomy code for the kind. Clients branch on
// these strings, never on message text.
func (e *Error) Code() string {
	switch e.Kind {
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation, KindBadRequest:
		return "VALIDATION_ERROR"
	case KindConflict:
		return "CONFLICT"
	case KindForbidden:
		return "FORBIDDEN"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	case KindGone:
		return "GONE"
	default:
		return "INTERNAL_ERROR"
	}
}

// New builds an error with the given kind and client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error that carries an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp annotates the error with the failing operation.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails attaches field-level detail included in the response body.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors.

// NotFound builds a not-found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation builds a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Conflict builds a conflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Forbidden builds a forbidden error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Unauthorized builds an unauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// BadRequest builds a bad-request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// TooManyRequests builds a rate-limit error.
func TooManyRequests(message string) *Error {
	return New(KindTooManyRequests, message)
}

// Internal builds an internal error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// Gone builds a gone error.
func Gone(message string) *Error {
	return New(KindGone, message)
}

// GetKind extracts the kind from an error, KindUnknown for foreign errors.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
