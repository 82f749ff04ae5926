package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrProfileNotFound is returned when the users row of an identity is missing.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrRowNotReturned is returned when a write asked for its row back and
	// the backend answered with an empty representation.
	ErrRowNotReturned = errors.New("backend returned no row")

	// ErrAvatarStorageDisabled is returned by avatar uploads when no bucket
	// is configured.
	ErrAvatarStorageDisabled = errors.New("avatar storage is not configured")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")
)
