// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"tourdesk_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error payload clients branch on: a stable code plus a
// human-readable message. Details carries field-level validation info.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Error sends an error envelope with the given status and message. The
// machine-readable code is derived from the status so handlers only pick
// a status; use ErrorCode when a non-default code is needed.
func Error(c *gin.Context, status int, message string, details interface{}) {
	ErrorCode(c, status, codeForStatus(status), message, details)
}

// ErrorCode sends an error envelope with an explicit taxonomy code.
func ErrorCode(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusGone:
		return "GONE"
	case http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	default:
		return "INTERNAL_ERROR"
	}
}

// HandleError maps domain errors to HTTP responses. Typed *apperr.Error values
// carry their own status and taxonomy code; anything untyped is an unexpected
// failure and surfaces as a generic INTERNAL_ERROR without leaking the cause.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{Error: ErrorBody{
			Code:    domainErr.Code(),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}})
		return true
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
		Code:    "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
	}})
	return true
}
