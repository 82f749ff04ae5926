package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/crypto"
	"github.com/MKhiriev/ubuntu-pools/internal/handler"
	callbackhttp "github.com/MKhiriev/ubuntu-pools/internal/handler/http"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/server"
	"github.com/MKhiriev/ubuntu-pools/internal/service"
	"github.com/MKhiriev/ubuntu-pools/internal/store"
)

// ErrCallbackServerStopped is returned by WaitForRedirect when the server
// stopped before any redirect carried a session.
var ErrCallbackServerStopped = errors.New("callback server stopped before a session arrived")

// App owns every long-lived client component: the backend client, the local
// storages and the services built over them.
type App struct {
	Backend  *backend.Client
	Services *service.ClientServices

	storages *store.ClientStorages
	cfg      *config.ClientConfig
	logger   *logger.Logger

	closeOnce sync.Once
}

// NewApp wires the client runtime from cfg. Nothing talks to the backend
// until [App.Start].
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	if cfg == nil || !cfg.Backend.IsConfigured() {
		return nil, config.ErrMissingBackendConfig
	}

	backendAdapter, err := adapter.NewHTTPBackendAdapter(cfg.Backend, log)
	if err != nil {
		return nil, fmt.Errorf("create backend adapter: %w", err)
	}

	sealer, err := newSealer(cfg, log)
	if err != nil {
		return nil, err
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	client, err := backend.New(*cfg, backendAdapter, storages.Sessions, sealer, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create backend client: %w", err)
	}

	if err = storages.AttachBackend(ctx, client); err != nil {
		client.Close()
		_ = storages.Close()
		return nil, fmt.Errorf("attach storages: %w", err)
	}

	services, err := service.NewClientServices(client, storages, log)
	if err != nil {
		client.Close()
		_ = storages.Close()
		return nil, fmt.Errorf("create client services: %w", err)
	}

	return &App{
		Backend:  client,
		Services: services,
		storages: storages,
		cfg:      cfg,
		logger:   log,
	}, nil
}

// newSealer returns nil when no storage key is configured; the session is
// then persisted as plain JSON.
func newSealer(cfg *config.ClientConfig, log *logger.Logger) (crypto.SessionSealer, error) {
	if cfg.App.StorageKey == "" {
		log.Warn().Msg("no storage key configured, the session is stored unencrypted")
		return nil, nil
	}

	ref, err := backend.ProjectRef(cfg.Backend.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}

	sealer, err := crypto.NewSessionSealer(cfg.App.StorageKey, ref)
	if err != nil {
		return nil, fmt.Errorf("create session sealer: %w", err)
	}
	return sealer, nil
}

// Start restores the persisted session and launches the token refresh job.
func (a *App) Start(ctx context.Context) {
	a.Services.Auth.Start(ctx)
	a.Backend.StartAutoRefresh(ctx)
}

// Close stops background work and releases the local database. It is safe
// to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.Services.Auth.Close()
		a.Backend.Close()
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Str("func", "App.Close").Msg("error closing local storage")
		}
	})
}

// CallbackURL is the address auth redirects must point at for
// [App.WaitForRedirect] to receive them.
func (a *App) CallbackURL() string {
	return "http://" + a.cfg.Callback.Address + callbackhttp.CallbackPath
}

// WaitForRedirect serves the auth callback routes until the first redirect
// that carries a session, then shuts the server down and returns it.
func (a *App) WaitForRedirect(ctx context.Context) (callbackhttp.CallbackResult, error) {
	handlers, err := handler.NewHandlers(a.Backend, a.cfg.Callback, a.logger)
	if err != nil {
		return callbackhttp.CallbackResult{}, fmt.Errorf("create callback handlers: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan callbackhttp.CallbackResult, 1)
	handlers.HTTP.OnSession = func(res callbackhttp.CallbackResult) {
		select {
		case results <- res:
			cancel()
		default:
		}
	}

	srv, err := server.NewServer(handlers, a.cfg.Callback, a.logger)
	if err != nil {
		return callbackhttp.CallbackResult{}, fmt.Errorf("create callback server: %w", err)
	}

	if err = srv.RunServer(ctx); err != nil {
		return callbackhttp.CallbackResult{}, err
	}

	select {
	case res := <-results:
		return res, nil
	default:
		return callbackhttp.CallbackResult{}, ErrCallbackServerStopped
	}
}
