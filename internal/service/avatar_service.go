package service

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/store"
	"github.com/MKhiriev/ubuntu-pools/models"
)

type avatarService struct {
	avatars store.AvatarStorage
	auth    AuthService

	logger *logger.Logger
}

// NewAvatarService returns an [AvatarService]. avatars may be nil when no
// bucket is configured; uploads then fail with
// [store.ErrAvatarStorageDisabled].
func NewAvatarService(avatars store.AvatarStorage, auth AuthService, log *logger.Logger) AvatarService {
	return &avatarService{
		avatars: avatars,
		auth:    auth,
		logger:  log.WithComponent("avatars"),
	}
}

// UploadAvatar stores the picture of the signed-in user and points the
// profile's avatar_url at it.
func (s *avatarService) UploadAvatar(ctx context.Context, contentType string, body io.Reader) (string, error) {
	if s.avatars == nil {
		return "", store.ErrAvatarStorageDisabled
	}

	identity := s.auth.Identity()
	if identity == nil {
		return "", ErrNoUserLoggedIn
	}

	avatarURL, err := s.avatars.Upload(ctx, identity.ID, contentType, body)
	if err != nil {
		return "", err
	}

	if err = s.auth.UpdateProfile(ctx, models.ProfileUpdate{AvatarURL: &avatarURL}); err != nil {
		s.logger.Err(err).
			Str("func", "avatarService.UploadAvatar").
			Str("avatar_url", avatarURL).
			Msg("avatar uploaded but profile not updated")
		return "", fmt.Errorf("save avatar url: %w", err)
	}

	return avatarURL, nil
}
