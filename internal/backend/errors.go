package backend

import (
	"errors"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
	"github.com/MKhiriev/ubuntu-pools/internal/config"
)

// FallbackMessage is what [ErrorMessage] returns when an error carries no
// readable text.
const FallbackMessage = "An unexpected error occurred"

var (
	// ErrNoSession is returned by operations that need a signed-in user.
	ErrNoSession = errors.New("auth session missing")
	// ErrURLDetectionDisabled is returned by SessionFromURL when session-in-URL
	// detection is switched off.
	ErrURLDetectionDisabled = errors.New("session detection in url is disabled")
	// ErrNoSessionInURL is returned when a redirect URL carries no tokens.
	ErrNoSessionInURL = errors.New("no session in url")
	// ErrInvalidRedirectToken is returned when a redirect carries an access
	// token that cannot be decoded or belongs to another user.
	ErrInvalidRedirectToken = errors.New("invalid access token in url")
	// ErrEmptyTable is returned by a query built without a table name.
	ErrEmptyTable = errors.New("empty table name")
)

// CallbackError is an auth failure reported through a redirect URL.
type CallbackError struct {
	Code        string
	Description string
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// ErrorMessage extracts a human-readable message from err: the backend's
// message, then its error_description, then [FallbackMessage].
func ErrorMessage(err error) string {
	return MessageOr(err, FallbackMessage)
}

// MessageOr is [ErrorMessage] with a caller-chosen fallback.
func MessageOr(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *adapter.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Message != "":
			return apiErr.Message
		case apiErr.Description != "":
			return apiErr.Description
		default:
			return fallback
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// IsConfigured reports whether cfg carries both required backend values.
func IsConfigured(cfg config.ClientBackend) bool {
	return cfg.IsConfigured()
}

// isAuthRejection reports whether the backend refused a token outright, as
// opposed to being unreachable.
func isAuthRejection(err error) bool {
	return errors.Is(err, adapter.ErrBadRequest) ||
		errors.Is(err, adapter.ErrUnauthorized) ||
		errors.Is(err, adapter.ErrForbidden)
}

// isSessionGone reports whether a logout failed only because the backend no
// longer knows the session.
func isSessionGone(err error) bool {
	return errors.Is(err, adapter.ErrUnauthorized) ||
		errors.Is(err, adapter.ErrForbidden) ||
		errors.Is(err, adapter.ErrNotFound)
}
