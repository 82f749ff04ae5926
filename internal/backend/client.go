// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/crypto"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/models"
)

// Client is the single long-lived handle to the hosted backend. It is safe
// for concurrent use.
type Client struct {
	adapter    adapter.BackendAdapter
	storage    SessionStorage
	sealer     crypto.SessionSealer
	storageKey string

	cfg             config.ClientBackend
	refreshInterval time.Duration
	refreshMargin   time.Duration
	now             func() time.Time

	events *EventHub
	logger *logger.Logger

	mu      sync.Mutex
	session *models.Session
	loaded  bool

	// serialises token refreshes
	refreshMu sync.Mutex

	jobMu     sync.Mutex
	jobCancel context.CancelFunc
	jobWG     sync.WaitGroup
}

// New builds the client. A configuration without URL or public key fails
// with [config.ErrMissingBackendConfig]. storage is replaced by a
// [MemoryStorage] when session persistence is off; sealer may be nil, in
// which case the session is stored as plain JSON.
func New(cfg config.ClientConfig, ad adapter.BackendAdapter, storage SessionStorage, sealer crypto.SessionSealer, log *logger.Logger) (*Client, error) {
	if !cfg.Backend.IsConfigured() {
		return nil, config.ErrMissingBackendConfig
	}

	ref, err := ProjectRef(cfg.Backend.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}

	if !cfg.Backend.PersistSession || storage == nil {
		storage = NewMemoryStorage()
	}

	interval := cfg.Workers.RefreshInterval
	if interval <= 0 {
		interval = config.DefaultRefreshInterval
	}
	margin := cfg.Workers.RefreshMargin
	if margin < 0 {
		margin = 0
	}

	return &Client{
		adapter:         ad,
		storage:         storage,
		sealer:          sealer,
		storageKey:      StorageKey(ref),
		cfg:             cfg.Backend,
		refreshInterval: interval,
		refreshMargin:   margin,
		now:             time.Now,
		events:          NewEventHub(),
		logger:          log.WithComponent("backend"),
	}, nil
}

// ProjectRef returns the first label of the backend host, e.g. "abcd" for
// https://abcd.supabase.co.
func ProjectRef(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}
	ref, _, _ := strings.Cut(host, ".")
	return ref, nil
}

// StorageKey is the key the session of project ref is persisted under.
func StorageKey(ref string) string {
	return "sb-" + ref + "-auth-token"
}

// StorageKey returns the key the session is persisted under.
func (c *Client) StorageKey() string {
	return c.storageKey
}

// IsConfigured is the readiness check for callers that must short-circuit
// before any network call.
func (c *Client) IsConfigured() bool {
	return c != nil && c.cfg.IsConfigured()
}

// SiteURL is the origin auth redirects point back to.
func (c *Client) SiteURL() string {
	return strings.TrimRight(c.cfg.SiteURL, "/")
}

// OnAuthStateChange registers handler for session-lifecycle changes. The
// returned handle is a [*Subscription].
func (c *Client) OnAuthStateChange(handler func(models.AuthChange)) models.AuthSubscription {
	return c.events.Subscribe(handler)
}

// Close stops the refresh job and releases every subscription.
func (c *Client) Close() {
	c.StopAutoRefresh()
	c.events.Close()
}

// GetSession returns the current session, reading the persisted one on
// first use. A session about to expire is refreshed first when automatic
// refresh is on. A nil session with a nil error means nobody is signed in.
func (c *Client) GetSession(ctx context.Context) (*models.Session, error) {
	s, err := c.currentSession(ctx)
	if err != nil || s == nil {
		return s, err
	}

	if !c.cfg.AutoRefreshToken || !s.ExpiresWithin(c.now(), c.refreshMargin) {
		return s, nil
	}

	refreshed, err := c.refresh(ctx, s.RefreshToken)
	if err != nil {
		if isAuthRejection(err) {
			return nil, nil
		}
		return nil, err
	}
	return &refreshed, nil
}

// accessToken returns the bearer for data calls, or "" for the anon key.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	s, err := c.GetSession(ctx)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return s.AccessToken, nil
}

func (c *Client) currentSession(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		s, err := c.loadSession(ctx)
		if err != nil {
			return nil, err
		}
		c.session = s
		c.loaded = true
	}

	if c.session == nil {
		return nil, nil
	}
	s := *c.session
	return &s, nil
}

// loadSession reads the persisted session. Unreadable entries are dropped.
// Caller holds c.mu.
func (c *Client) loadSession(ctx context.Context) (*models.Session, error) {
	raw, err := c.storage.GetItem(ctx, c.storageKey)
	if err != nil {
		c.logger.Err(err).Str("func", "Client.loadSession").Msg("failed to read persisted session")
		return nil, fmt.Errorf("read persisted session: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	payload := []byte(raw)
	if c.sealer != nil {
		payload, err = c.sealer.Open(raw, c.storageKey)
		if err != nil {
			c.logger.Warn().Err(err).Str("func", "Client.loadSession").Msg("dropping persisted session that cannot be unsealed")
			_ = c.storage.RemoveItem(ctx, c.storageKey)
			return nil, nil
		}
	}

	var s models.Session
	if err = json.Unmarshal(payload, &s); err != nil || s.AccessToken == "" {
		c.logger.Warn().Err(err).Str("func", "Client.loadSession").Msg("dropping malformed persisted session")
		_ = c.storage.RemoveItem(ctx, c.storageKey)
		return nil, nil
	}

	return &s, nil
}

// saveSession makes s current and persists it. A persistence failure is
// logged; the session stays usable in memory.
func (c *Client) saveSession(ctx context.Context, s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = &s
	c.loaded = true

	payload, err := json.Marshal(s)
	if err != nil {
		c.logger.Err(err).Str("func", "Client.saveSession").Msg("failed to encode session")
		return
	}

	value := string(payload)
	if c.sealer != nil {
		if value, err = c.sealer.Seal(payload, c.storageKey); err != nil {
			c.logger.Err(err).Str("func", "Client.saveSession").Msg("failed to seal session")
			return
		}
	}

	if err = c.storage.SetItem(ctx, c.storageKey, value); err != nil {
		c.logger.Err(err).Str("func", "Client.saveSession").Msg("failed to persist session")
	}
}

func (c *Client) dropSession(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = nil
	c.loaded = true

	if err := c.storage.RemoveItem(ctx, c.storageKey); err != nil {
		c.logger.Err(err).Str("func", "Client.dropSession").Msg("failed to remove persisted session")
	}
}

func (c *Client) emit(event models.AuthEvent, s *models.Session) {
	change := models.AuthChange{Event: event}
	if s != nil {
		cp := *s
		change.Session = &cp
	}
	c.logger.Debug().Str("event", string(event)).Msg("auth state changed")
	c.events.Publish(change)
}
