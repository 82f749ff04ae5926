// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/store"
	"github.com/MKhiriev/ubuntu-pools/internal/validators"
	"github.com/MKhiriev/ubuntu-pools/models"
)

// ResetPasswordPath is appended to the site URL to form the link target of
// password-reset e-mails.
const ResetPasswordPath = "/reset-password"

// lastLoginTimeout bounds the background last-login write.
const lastLoginTimeout = 10 * time.Second

// AuthManager is the auth session manager. It owns the in-memory session
// identity and user profile, keeps them in step with backend session
// changes and runs the account operations.
//
// A non-nil profile always belongs to the current identity: adopting a
// different identity drops the old profile, and a profile read that
// finishes after the identity changed is discarded.
//
// Operations may run concurrently. The loading flag counts in-flight work
// and never blocks a second operation.
type AuthManager struct {
	backend   AuthBackend
	profiles  store.ProfileRepository
	validator validators.Validator
	now       func() time.Time
	logger    *logger.Logger

	mu          sync.RWMutex
	identity    *models.SessionIdentity
	user        *models.User
	initialized bool
	started     bool
	closed      bool
	sub         models.AuthSubscription
	ctx         context.Context
	cancel      context.CancelFunc

	loading atomic.Int64
	wg      sync.WaitGroup
}

// NewAuthManager constructs an [AuthManager] in the initializing state.
// Nothing talks to the backend until [AuthManager.Start].
func NewAuthManager(b AuthBackend, profiles store.ProfileRepository, v validators.Validator, log *logger.Logger) *AuthManager {
	if v == nil {
		v = validators.NewSchemaValidator()
	}

	m := &AuthManager{
		backend:   b,
		profiles:  profiles,
		validator: v,
		now:       time.Now,
		logger:    log.WithComponent("auth"),
	}
	// the initial session check counts as in-flight work
	m.loading.Store(1)
	return m
}

// Start subscribes to backend session changes, then adopts a persisted
// session if there is one. The profile of a restored session is fetched in
// the background; the loading flag stays set until that fetch ends.
func (m *AuthManager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.ctx, m.cancel = context.WithCancel(context.WithoutCancel(ctx))
	m.mu.Unlock()

	sub := m.backend.OnAuthStateChange(m.handleAuthChange)
	m.mu.Lock()
	m.sub = sub
	m.mu.Unlock()

	session, err := m.backend.GetSession(ctx)
	if err != nil {
		m.logger.Warn().Err(err).
			Str("func", "AuthManager.Start").
			Msg("failed to read persisted session")
	}

	if session == nil || session.User.ID == "" {
		m.mu.Lock()
		m.initialized = true
		m.mu.Unlock()
		m.endLoading()
		return
	}

	m.adopt(session.User)
	userID := session.User.ID
	if !m.goTracked(func() {
		defer m.endLoading()
		m.fetchUserProfile(m.ctx, userID)
	}) {
		m.endLoading()
	}
}

// Close releases the backend subscription and waits for background work.
// No notification is handled after Close returns.
func (m *AuthManager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	sub, cancel := m.sub, m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		sub.Unsubscribe()
		<-sub.Done()
	}
	m.wg.Wait()
}

func (m *AuthManager) handleAuthChange(change models.AuthChange) {
	switch change.Event {
	case models.EventSignedIn:
		if change.Session == nil || change.Session.User.ID == "" {
			return
		}
		userID := change.Session.User.ID
		if !m.isCurrentSession(userID) {
			m.logger.Debug().
				Str("func", "AuthManager.handleAuthChange").
				Str("user_id", userID).
				Msg("ignoring stale sign-in notification")
			return
		}
		m.adopt(change.Session.User)
		m.fetchUserProfile(m.ctx, userID)

	case models.EventSignedOut:
		m.clear()

	case models.EventUserUpdated:
		if change.Session != nil && m.isCurrentSession(change.Session.User.ID) {
			m.adopt(change.Session.User)
		}

	case models.EventTokenRefreshed:
		m.logger.Debug().Msg("token refreshed")
	}
}

// isCurrentSession reports whether the backend still holds a session of
// userID. Notifications are delivered asynchronously and may trail an
// explicit sign-out.
func (m *AuthManager) isCurrentSession(userID string) bool {
	s, err := m.backend.GetSession(m.ctx)
	return err == nil && s != nil && s.User.ID == userID
}

// fetchUserProfile loads the profile of userID joined with its trust score.
// Failures are logged and leave the profile unset.
func (m *AuthManager) fetchUserProfile(ctx context.Context, userID string) {
	m.beginLoading()
	defer m.endLoading()

	rec, err := m.profiles.GetProfile(ctx, userID)
	if err != nil {
		m.logger.Err(err).
			Str("func", "AuthManager.fetchUserProfile").
			Str("user_id", userID).
			Msg("error fetching user profile")
		return
	}

	m.setProfile(userID, rec.Resolve(m.now()))
}

func (m *AuthManager) setProfile(userID string, u models.User) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.identity == nil || m.identity.ID != userID {
		return false
	}
	m.user = &u
	return true
}

// SignIn checks the credentials with the backend, adopts the new identity
// and loads its profile. The last-login stamp is written in the background
// and its failure is only logged.
func (m *AuthManager) SignIn(ctx context.Context, email, password string) error {
	m.beginLoading()
	defer m.endLoading()

	session, err := m.backend.SignInWithPassword(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return m.fail(ErrSignInFailed, err, "AuthManager.SignIn")
	}

	m.adopt(session.User)
	m.fetchUserProfile(ctx, session.User.ID)
	m.touchLastLogin(ctx, session.User.ID)

	return nil
}

func (m *AuthManager) touchLastLogin(ctx context.Context, userID string) {
	at := m.now()
	m.goTracked(func() {
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), lastLoginTimeout)
		defer cancel()

		if err := m.profiles.TouchLastLogin(bg, userID, at); err != nil {
			m.logger.Warn().Err(err).
				Str("func", "AuthManager.touchLastLogin").
				Str("user_id", userID).
				Msg("failed to update last login")
		}
	})
}

// SignUp creates the account, its users row with zero balances and its
// neutral trust_metrics row, then adopts the identity and loads the
// profile. The writes are not rolled back: when either insert fails the
// account is left without a profile and its id is logged.
func (m *AuthManager) SignUp(ctx context.Context, email, password, name string) error {
	m.beginLoading()
	defer m.endLoading()

	if err := m.validator.Validate(ctx, models.SignUpInput{Email: email, Password: password, Name: name}); err != nil {
		return &OperationError{Kind: ErrSignUpFailed, Reason: err.Error(), Cause: err}
	}

	res, err := m.backend.SignUp(ctx, models.Credentials{Email: email, Password: password}, map[string]any{"name": name})
	if err != nil {
		return m.fail(ErrSignUpFailed, err, "AuthManager.SignUp")
	}
	if res.User.ID == "" {
		return nil
	}

	profileEmail := res.User.Email
	if profileEmail == "" {
		profileEmail = email
	}

	profile := models.NewUserProfile{ID: res.User.ID, Email: profileEmail, Name: name}
	if err = m.profiles.CreateProfile(ctx, profile); err != nil {
		m.logOrphan(res.User.ID, "users", err)
		return m.fail(ErrSignUpFailed, err, "AuthManager.SignUp")
	}

	if err = m.profiles.CreateTrustMetrics(ctx, models.NewTrustMetricsRow(res.User.ID)); err != nil {
		m.logOrphan(res.User.ID, "trust_metrics", err)
		return m.fail(ErrSignUpFailed, err, "AuthManager.SignUp")
	}

	m.adopt(res.User)
	m.fetchUserProfile(ctx, res.User.ID)

	return nil
}

func (m *AuthManager) logOrphan(userID, table string, err error) {
	m.logger.Error().Err(err).
		Str("func", "AuthManager.SignUp").
		Str("user_id", userID).
		Str("table", table).
		Msg("account created without application profile")
}

// SignOut ends the backend session and clears identity and profile right
// away, without waiting for the sign-out notification.
func (m *AuthManager) SignOut(ctx context.Context) error {
	m.beginLoading()
	defer m.endLoading()

	if err := m.backend.SignOut(ctx); err != nil {
		return m.fail(ErrSignOutFailed, err, "AuthManager.SignOut")
	}

	m.clear()
	return nil
}

// UpdateProfile persists the present fields of update and merges them into
// the in-memory profile without re-reading it. A phone number is stored in
// E.164 form. Backend failures carry no reason beyond the fixed text.
func (m *AuthManager) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	m.mu.RLock()
	var userID string
	if m.user != nil && m.identity != nil {
		userID = m.user.ID
	}
	m.mu.RUnlock()

	if userID == "" {
		return &OperationError{Kind: ErrNoUserLoggedIn}
	}

	m.beginLoading()
	defer m.endLoading()

	if err := validators.PrepareProfileUpdate(ctx, m.validator, &update); err != nil {
		return &OperationError{Kind: ErrUpdateProfileFailed, Reason: err.Error(), Cause: err}
	}
	if update.IsEmpty() {
		return nil
	}

	if err := m.profiles.UpdateProfile(ctx, userID, update); err != nil {
		m.logger.Err(err).
			Str("func", "AuthManager.UpdateProfile").
			Str("user_id", userID).
			Msg("failed to update profile")
		return &OperationError{Kind: ErrUpdateProfileFailed, Cause: err}
	}

	m.mu.Lock()
	if m.user != nil && m.user.ID == userID {
		merged := update.Apply(*m.user)
		m.user = &merged
	}
	m.mu.Unlock()

	return nil
}

// ResetPassword sends a password-reset e-mail whose link leads back to
// the site's reset page.
func (m *AuthManager) ResetPassword(ctx context.Context, email string) error {
	m.beginLoading()
	defer m.endLoading()

	redirectTo := m.backend.SiteURL() + ResetPasswordPath
	if err := m.backend.ResetPasswordForEmail(ctx, email, redirectTo); err != nil {
		return m.fail(ErrResetPasswordFailed, err, "AuthManager.ResetPassword")
	}
	return nil
}

// UpdatePassword sets a new password for the signed-in identity, typically
// after following a recovery link.
func (m *AuthManager) UpdatePassword(ctx context.Context, password string) error {
	m.beginLoading()
	defer m.endLoading()

	identity, err := m.backend.UpdatePassword(ctx, password)
	if err != nil {
		if errors.Is(err, backend.ErrNoSession) {
			return &OperationError{Kind: ErrNoUserLoggedIn, Cause: err}
		}
		return m.fail(ErrUpdatePasswordFailed, err, "AuthManager.UpdatePassword")
	}

	m.adopt(identity)
	return nil
}

// RefreshProfile re-reads the profile of the current identity, replacing
// whatever optimistic merges were applied locally. Unlike the automatic
// fetch it reports failures.
func (m *AuthManager) RefreshProfile(ctx context.Context) error {
	identity := m.Identity()
	if identity == nil {
		return &OperationError{Kind: ErrNoUserLoggedIn}
	}

	m.beginLoading()
	defer m.endLoading()

	rec, err := m.profiles.GetProfile(ctx, identity.ID)
	if err != nil {
		return m.fail(ErrFetchProfileFailed, err, "AuthManager.RefreshProfile")
	}

	m.setProfile(identity.ID, rec.Resolve(m.now()))
	return nil
}

// User returns a copy of the current profile, or nil.
func (m *AuthManager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return nil
	}
	u := m.user.Clone()
	return &u
}

// Identity returns a copy of the current session identity, or nil.
func (m *AuthManager) Identity() *models.SessionIdentity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.identity == nil {
		return nil
	}
	id := m.identity.Clone()
	return &id
}

// IsAuthenticated reports whether a profile is loaded.
func (m *AuthManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// IsLoading reports whether any operation or profile read is in flight.
func (m *AuthManager) IsLoading() bool {
	return m.loading.Load() > 0
}

// State returns the coarse manager state. An adopted identity whose profile
// could not be read still counts as authenticated.
func (m *AuthManager) State() models.AuthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stateLocked()
}

func (m *AuthManager) stateLocked() models.AuthState {
	switch {
	case !m.initialized:
		return models.AuthStateInitializing
	case m.identity != nil:
		return models.AuthStateAuthenticated
	default:
		return models.AuthStateUnauthenticated
	}
}

// Snapshot returns a consistent copy of the manager's observable state.
func (m *AuthManager) Snapshot() models.AuthSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := models.AuthSnapshot{
		State:           m.stateLocked(),
		IsLoading:       m.IsLoading(),
		IsAuthenticated: m.user != nil,
	}
	if m.user != nil {
		u := m.user.Clone()
		snap.User = &u
	}
	if m.identity != nil {
		id := m.identity.Clone()
		snap.Identity = &id
	}
	return snap
}

func (m *AuthManager) adopt(identity models.SessionIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user != nil && m.user.ID != identity.ID {
		m.user = nil
	}
	m.identity = &identity
	m.initialized = true
}

func (m *AuthManager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.identity = nil
	m.user = nil
	m.initialized = true
}

func (m *AuthManager) beginLoading() { m.loading.Add(1) }

func (m *AuthManager) endLoading() { m.loading.Add(-1) }

// goTracked runs fn in a goroutine Close waits for. It reports false, and
// does not run fn, once the manager is closed.
func (m *AuthManager) goTracked(fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fn()
	}()
	return true
}

// fail logs err and wraps it into an [*OperationError] of kind whose reason
// is the backend's message.
func (m *AuthManager) fail(kind, err error, fn string) error {
	m.logger.Err(err).Str("func", fn).Msg(kind.Error())
	return &OperationError{Kind: kind, Reason: backend.MessageOr(err, ""), Cause: err}
}
