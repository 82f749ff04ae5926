package http

import (
	"context"

	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/models"
)

// SessionCallback adopts the session carried by an auth redirect URL.
// *backend.Client satisfies it.
type SessionCallback interface {
	SessionFromURL(ctx context.Context, rawURL string) (models.Session, string, error)
}

// CallbackResult is a session adopted from a redirect together with the
// redirect type (signup, recovery, magiclink or invite).
type CallbackResult struct {
	Session models.Session
	Type    string
}

type Handler struct {
	callback SessionCallback
	// OnSession, when set, is called after every adopted redirect.
	OnSession func(CallbackResult)

	logger *logger.Logger
}

func NewHandler(callback SessionCallback, logger *logger.Logger) *Handler {
	logger.Debug().Msg("callback handler created")
	return &Handler{
		callback: callback,
		logger:   logger,
	}
}
