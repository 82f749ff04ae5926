package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
)

// ClientStorages groups the client-side repositories. Sessions lives in the
// local SQLite file; the remaining repositories reach the hosted backend and
// are only set after [ClientStorages.AttachBackend].
type ClientStorages struct {
	Sessions SessionRepository
	Profiles ProfileRepository
	Pools    PoolRepository
	// Avatars is nil when no avatar bucket is configured.
	Avatars AvatarStorage

	avatars config.ClientAvatars
	db      *DB
	logger  *logger.Logger
}

// NewClientStorages opens the SQLite database at cfg.DB.DSN, runs pending
// migrations and wires the session repository.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Sessions: NewSessionRepository(db, logger),
		avatars:  cfg.Avatars,
		db:       db,
		logger:   logger,
	}, nil
}

// AttachBackend wires the remote repositories to client.
func (s *ClientStorages) AttachBackend(ctx context.Context, client *backend.Client) error {
	s.Profiles = NewProfileRepository(client, s.logger)
	s.Pools = NewPoolRepository(client, s.logger)

	avatars, err := NewS3AvatarStorage(ctx, s.avatars, s.logger)
	switch {
	case errors.Is(err, ErrAvatarStorageDisabled):
		s.logger.Debug().Msg("avatar uploads are not configured")
	case err != nil:
		return fmt.Errorf("avatar storage: %w", err)
	default:
		s.Avatars = avatars
	}

	return nil
}

// Close releases the SQLite connection.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
