package service

import (
	"errors"

	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/store"
	"github.com/MKhiriev/ubuntu-pools/internal/validators"
)

// ErrStoragesDetached is returned when the remote repositories have not been
// bound to a backend client yet.
var ErrStoragesDetached = errors.New("storages are not attached to a backend client")

type ClientServices struct {
	Auth    AuthService
	Pools   PoolService
	Avatars AvatarService
}

// NewClientServices wires the client services over storages, which must
// already be attached to the backend client that authBackend talks to.
func NewClientServices(authBackend AuthBackend, storages *store.ClientStorages, log *logger.Logger) (*ClientServices, error) {
	if storages.Profiles == nil || storages.Pools == nil {
		return nil, ErrStoragesDetached
	}

	auth := NewAuthManager(authBackend, storages.Profiles, validators.NewSchemaValidator(), log)
	pools := NewPoolValidationService().Wrap(NewPoolService(storages.Pools, auth, log))

	return &ClientServices{
		Auth:    auth,
		Pools:   pools,
		Avatars: NewAvatarService(storages.Avatars, auth, log),
	}, nil
}
