package adapter

import (
	"errors"
	"fmt"
)

// Status sentinels. Every [*APIError] unwraps to exactly one of them.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrNotAcceptable       = errors.New("not acceptable")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessable       = errors.New("unprocessable entity")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrUnexpectedStatus    = errors.New("unexpected status")
)

// ErrDecodeResponse is returned when a 2xx body cannot be decoded.
var ErrDecodeResponse = errors.New("cannot decode backend response")

// APIError is a non-2xx answer of the backend with its decoded error body.
// Message is the primary human-readable text; Description carries the
// OAuth-style error_description some auth endpoints return instead.
type APIError struct {
	Status      int
	Code        string
	Message     string
	Description string
	Hint        string
	Details     string

	kind error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	text := e.Message
	if text == "" {
		text = e.Description
	}
	if text == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.kind)
	}
	return fmt.Sprintf("http %d: %s", e.Status, text)
}

// Unwrap returns the status sentinel.
func (e *APIError) Unwrap() error {
	return e.kind
}

// NewAPIError builds the [*APIError] mapHTTPError would return for status.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message, kind: statusKind(status)}
}
