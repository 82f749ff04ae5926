package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/mock"
	"github.com/MKhiriev/ubuntu-pools/internal/store"
	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAvatarService_UploadAvatar(t *testing.T) {
	const avatarURL = "https://abcd.supabase.co/storage/v1/object/public/avatars/user-1/avatar-1.png"

	ctrl := gomock.NewController(t)
	storage := mock.NewMockAvatarStorage(ctrl)
	auth := mock.NewMockAuthService(ctrl)

	body := strings.NewReader("png-bytes")
	auth.EXPECT().Identity().Return(&models.SessionIdentity{ID: "user-1"})
	storage.EXPECT().Upload(gomock.Any(), "user-1", "image/png", body).Return(avatarURL, nil)
	url := avatarURL
	auth.EXPECT().UpdateProfile(gomock.Any(), models.ProfileUpdate{AvatarURL: &url}).Return(nil)

	got, err := NewAvatarService(storage, auth, logger.Nop()).UploadAvatar(context.Background(), "image/png", body)
	require.NoError(t, err)
	assert.Equal(t, avatarURL, got)
}

func TestAvatarService_UploadAvatar_Errors(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		auth := mock.NewMockAuthService(gomock.NewController(t))

		_, err := NewAvatarService(nil, auth, logger.Nop()).UploadAvatar(context.Background(), "image/png", strings.NewReader(""))
		assert.ErrorIs(t, err, store.ErrAvatarStorageDisabled)
	})

	t.Run("signed out", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := mock.NewMockAuthService(ctrl)
		auth.EXPECT().Identity().Return(nil)

		_, err := NewAvatarService(mock.NewMockAvatarStorage(ctrl), auth, logger.Nop()).
			UploadAvatar(context.Background(), "image/png", strings.NewReader(""))
		assert.ErrorIs(t, err, ErrNoUserLoggedIn)
	})

	t.Run("profile update fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		storage := mock.NewMockAvatarStorage(ctrl)
		auth := mock.NewMockAuthService(ctrl)

		auth.EXPECT().Identity().Return(&models.SessionIdentity{ID: "user-1"})
		storage.EXPECT().Upload(gomock.Any(), "user-1", "image/jpeg", gomock.Any()).Return("https://cdn/a.jpg", nil)
		auth.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).
			Return(&OperationError{Kind: ErrUpdateProfileFailed, Cause: errors.New("rls")})

		_, err := NewAvatarService(storage, auth, logger.Nop()).
			UploadAvatar(context.Background(), "image/jpeg", strings.NewReader("jpg"))
		assert.ErrorIs(t, err, ErrUpdateProfileFailed)
	})
}
