package handler

import (
	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/handler/http"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the redirect callback handler. It fails when no
// callback address is configured, since nothing could serve the routes.
func NewHandlers(callback http.SessionCallback, cfg config.ClientCallback, logger *logger.Logger) (*Handlers, error) {
	if cfg.Address == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(callback, logger)}, nil
}
