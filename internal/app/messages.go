// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app holds the user-facing text shared by the callback pages, the
// terminal UI and the command line.
package app

const (
	// MsgCallbackSignedIn is shown after a magic-link redirect. %s is the e-mail.
	MsgCallbackSignedIn = "Signed in as %s. You can close this window and return to the terminal."

	// MsgCallbackConfirmed is shown after an e-mail confirmation or invite redirect.
	MsgCallbackConfirmed = "E-mail %s confirmed. You can close this window and return to the terminal."

	// MsgCallbackRecovery is shown after a password-recovery redirect.
	MsgCallbackRecovery = "Recovery link accepted for %s. Return to the terminal to choose a new password."

	MsgCallbackNoSession   = "This link carries no session. Request a new one from the terminal."
	MsgCallbackNeedsScript = "Enable JavaScript to finish signing in, or paste this page's address into `pools callback`."
	MsgCallbackDisabled    = "Session detection from links is turned off for this client."
)

const (
	MsgMissingBackendConfig = "backend is not configured: set SUPABASE_URL and SUPABASE_ANON_KEY"
	MsgSignedOut            = "Signed out."
	MsgResetEmailSent       = "If an account exists for %s, a password reset e-mail is on its way."
	MsgSignUpCheckEmail     = "Account created. Confirm your e-mail address, then sign in."
	MsgNotSignedIn          = "Not signed in."
	MsgPasswordUpdated      = "Password updated."
	MsgCopiedUserID         = "User id copied to clipboard."
	MsgProfileUpdated       = "Profile updated."
	MsgBackendUnreachable   = "No network or the backend is unreachable."
)
