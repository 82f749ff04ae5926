// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"maps"
	"time"
)

// SessionIdentity is the backend-issued principal of the logged-in actor.
// It is owned by the backend client; the application only reads it.
type SessionIdentity struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             string         `json:"role,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// IsVerified reports whether the identity's e-mail address has been confirmed.
func (i SessionIdentity) IsVerified() bool {
	return i.EmailConfirmedAt != nil && !i.EmailConfirmedAt.IsZero()
}

// Clone returns a copy of i that shares no pointer or map with it.
func (i SessionIdentity) Clone() SessionIdentity {
	if i.EmailConfirmedAt != nil {
		at := *i.EmailConfirmedAt
		i.EmailConfirmedAt = &at
	}
	i.UserMetadata = maps.Clone(i.UserMetadata)
	return i
}

// Session is an authenticated connection to the backend.
type Session struct {
	AccessToken  string          `json:"access_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	ExpiresAt    int64           `json:"expires_at"`
	RefreshToken string          `json:"refresh_token"`
	User         SessionIdentity `json:"user"`
}

// Expiry returns the moment the access token stops being accepted.
func (s Session) Expiry() time.Time {
	return time.Unix(s.ExpiresAt, 0)
}

// ExpiresWithin reports whether the access token expires before now+margin.
func (s Session) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return !now.Add(margin).Before(s.Expiry())
}

// Credentials are the e-mail/password pair used for password sign-in and sign-up.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpInput is what a new member enters to create an account. Name
// becomes both the identity metadata and the users row name.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignUpResult is what the backend returns for a new account. Session is nil
// when the project requires e-mail confirmation before the first sign-in.
type SignUpResult struct {
	User    SessionIdentity
	Session *Session
}

// AuthEvent names a session-lifecycle notification pushed by the backend client.
type AuthEvent string

const (
	EventSignedIn         AuthEvent = "SIGNED_IN"
	EventSignedOut        AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed   AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated      AuthEvent = "USER_UPDATED"
	EventPasswordRecovery AuthEvent = "PASSWORD_RECOVERY"
)

// AuthChange is a single session-lifecycle notification. Session is nil for
// [EventSignedOut].
type AuthChange struct {
	Event   AuthEvent
	Session *Session
}

// AuthSubscription is the handle of a registered session-change handler.
// After Unsubscribe returns no new delivery starts; Done is closed once the
// handler has returned for the last time.
type AuthSubscription interface {
	Unsubscribe()
	Done() <-chan struct{}
}

// AuthState is the coarse state of the auth session manager.
type AuthState int

const (
	AuthStateInitializing AuthState = iota
	AuthStateUnauthenticated
	AuthStateAuthenticated
)

// String implements fmt.Stringer.
func (s AuthState) String() string {
	switch s {
	case AuthStateInitializing:
		return "initializing"
	case AuthStateUnauthenticated:
		return "unauthenticated"
	case AuthStateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthSnapshot is a consistent copy of everything the auth session manager
// exposes to presentation code.
type AuthSnapshot struct {
	State           AuthState
	User            *User
	Identity        *SessionIdentity
	IsLoading       bool
	IsAuthenticated bool
}
