package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/logger"
)

// busyRetries bounds how often a write is repeated while another process
// holds the database lock.
const busyRetries = 3

var busyBackoff = 50 * time.Millisecond

// sessionRepository is the SQLite-backed implementation of [SessionRepository].
// Values are opaque to it: the backend client decides what a value holds and
// whether it is sealed.
type sessionRepository struct {
	*DB
	now    func() time.Time
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] over db.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		DB:     db,
		now:    time.Now,
		logger: logger,
	}
}

// GetItem implements [SessionRepository]. A missing key yields an empty
// value and no error.
func (s *sessionRepository) GetItem(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectSessionQuery(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		log.Err(err).
			Str("func", "sessionRepository.GetItem").
			Str("key", key).
			Msg("failed to read stored session")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, nil
}

// SetItem implements [SessionRepository]. An existing value under key is
// replaced.
func (s *sessionRepository) SetItem(ctx context.Context, key, value string) error {
	query, args, err := buildUpsertSessionQuery(key, value, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.execWithRetry(ctx, "sessionRepository.SetItem", query, args...)
}

// RemoveItem implements [SessionRepository]. Removing a missing key is not
// an error.
func (s *sessionRepository) RemoveItem(ctx context.Context, key string) error {
	query, args, err := buildDeleteSessionQuery(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.execWithRetry(ctx, "sessionRepository.RemoveItem", query, args...)
}

func (s *sessionRepository) execWithRetry(ctx context.Context, fn, query string, args ...any) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= busyRetries; attempt++ {
		if _, err = s.DB.ExecContext(ctx, query, args...); err == nil {
			return nil
		}
		if !s.retryable(err) {
			break
		}

		log.Warn().Err(err).Str("func", fn).Int("attempt", attempt).Msg("database is busy, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * busyBackoff):
		}
	}

	log.Err(err).Str("func", fn).Msg("failed to execute session statement")
	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}
