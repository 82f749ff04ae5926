package service

import "errors"

// Operation kinds of the auth session manager. An [*OperationError] matches
// its kind with errors.Is; the kind's text is the message shown when the
// backend gave no reason.
var (
	ErrSignInFailed         = errors.New("failed to sign in")
	ErrSignUpFailed         = errors.New("failed to sign up")
	ErrSignOutFailed        = errors.New("failed to sign out")
	ErrUpdateProfileFailed  = errors.New("failed to update profile")
	ErrResetPasswordFailed  = errors.New("failed to send reset email")
	ErrUpdatePasswordFailed = errors.New("failed to update password")
	ErrFetchProfileFailed   = errors.New("failed to fetch profile")
	ErrNoUserLoggedIn       = errors.New("no user logged in")
)

var (
	ErrPoolNotFound         = errors.New("pool not found")
	ErrNoActiveConstitution = errors.New("pool has no active constitution")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrAlreadyExists        = errors.New("record already exists")
	ErrSessionExpired       = errors.New("session expired, sign in again")
	ErrBackendUnavailable   = errors.New("backend unavailable")
)

// OperationError is the uniform failure of an auth session manager
// operation: a kind, an optional human-readable reason sourced from the
// backend and the underlying cause.
type OperationError struct {
	Kind   error
	Reason string
	Cause  error
}

// Error returns the reason, or the kind's fixed text when there is none.
func (e *OperationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OperationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
