// Package backend is the process-wide handle to the hosted backend.
//
// A [Client] owns the current session: it signs in and out through the auth
// API, keeps the session in a [SessionStorage] under the
// sb-<project-ref>-auth-token key, refreshes it before it expires and pushes
// every lifecycle change to the subscribers registered with
// [Client.OnAuthStateChange]. Row access to the data API goes through
// [Client.From], authorised with the current access token.
package backend
