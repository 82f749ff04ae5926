// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the transport layer between the client and the hosted
// backend. It speaks the backend's two HTTP surfaces: the auth API under
// /auth/v1 and the data API under /rest/v1.
//
// Non-2xx responses are turned into [*APIError] values by mapHTTPError. An
// APIError unwraps to one of the status sentinels in errors.go, so callers
// can use [errors.Is] (e.g. [ErrUnauthorized] for 401) and [errors.As] to read
// the backend's message.
package adapter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MKhiriev/ubuntu-pools/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backend_adapter_mock.go -package=mock

// BackendAdapter defines the calls the backend client issues. accessToken
// parameters authorise the request as the signed-in user; an empty token
// falls back to the public API key.
type BackendAdapter interface {
	// SignInWithPassword exchanges e-mail and password for a session.
	SignInWithPassword(ctx context.Context, creds models.Credentials) (models.Session, error)

	// SignUp creates an account. The result carries a session only when the
	// project does not require e-mail confirmation.
	SignUp(ctx context.Context, req SignUpRequest) (models.SignUpResult, error)

	// RefreshToken exchanges a refresh token for a new session.
	RefreshToken(ctx context.Context, refreshToken string) (models.Session, error)

	// SignOut revokes the session behind accessToken.
	SignOut(ctx context.Context, accessToken string) error

	// Recover sends a password-reset e-mail whose link points at redirectTo.
	Recover(ctx context.Context, email, redirectTo string) error

	// GetUser returns the identity behind accessToken.
	GetUser(ctx context.Context, accessToken string) (models.SessionIdentity, error)

	// UpdateUser changes the identity's password, e-mail or metadata.
	UpdateUser(ctx context.Context, accessToken string, attrs UserAttributes) (models.SessionIdentity, error)

	// Rest performs one data API call against a table.
	Rest(ctx context.Context, req RestRequest) (RestResponse, error)
}

// SignUpRequest is the body of a sign-up call. Data becomes the identity's
// user metadata.
type SignUpRequest struct {
	Email      string         `json:"email"`
	Password   string         `json:"password"`
	Data       map[string]any `json:"data,omitempty"`
	RedirectTo string         `json:"-"`
}

// UserAttributes is a partial identity update. Nil fields are not sent.
type UserAttributes struct {
	Email    *string        `json:"email,omitempty"`
	Password *string        `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// RestRequest describes one data API call.
type RestRequest struct {
	// Method is one of GET, POST or PATCH.
	Method string
	// Table is the collection name, e.g. "users".
	Table string
	// Query holds select, filter, order, limit and offset parameters in
	// PostgREST syntax (e.g. "id" => "eq.<uuid>").
	Query url.Values
	// Body is JSON-encoded for POST and PATCH.
	Body any
	// AccessToken authorises the call as the signed-in user.
	AccessToken string
	// Single asks for exactly one row as a JSON object instead of an array.
	Single bool
	// ReturnRepresentation asks writes to return the affected rows.
	ReturnRepresentation bool
	// Count asks for the exact row count in the Content-Range header.
	Count bool
}

// RestResponse is the raw result of a data API call.
type RestResponse struct {
	Status int
	Body   []byte
	// Total is the exact row count when RestRequest.Count was set, or -1.
	Total  int
	Header http.Header
}
