// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/mock"
	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type authFixture struct {
	mgr      *AuthManager
	backend  *mock.MockAuthBackend
	profiles *mock.MockProfileRepository
	hub      *backend.EventHub

	session atomic.Pointer[models.Session]
}

// newAuthFixture builds a manager over mocks. GetSession always answers with
// whatever setSession stored last.
func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &authFixture{
		backend:  mock.NewMockAuthBackend(ctrl),
		profiles: mock.NewMockProfileRepository(ctrl),
		hub:      backend.NewEventHub(),
	}

	f.backend.EXPECT().OnAuthStateChange(gomock.Any()).
		DoAndReturn(func(h func(models.AuthChange)) models.AuthSubscription {
			return f.hub.Subscribe(h)
		}).AnyTimes()
	f.backend.EXPECT().GetSession(gomock.Any()).
		DoAndReturn(func(context.Context) (*models.Session, error) {
			return f.session.Load(), nil
		}).AnyTimes()

	f.mgr = NewAuthManager(f.backend, f.profiles, nil, logger.Nop())
	f.mgr.now = func() time.Time { return fixedNow }
	// runs before the controller's own cleanup
	t.Cleanup(f.mgr.Close)

	return f
}

func (f *authFixture) setSession(s *models.Session) { f.session.Store(s) }

func (f *authFixture) waitIdle(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return !f.mgr.IsLoading() }, waitFor, tick)
}

func testSession(id string) *models.Session {
	return &models.Session{
		AccessToken:  "access-" + id,
		RefreshToken: "refresh-" + id,
		ExpiresAt:    fixedNow.Add(time.Hour).Unix(),
		User:         models.SessionIdentity{ID: id, Email: id + "@example.com"},
	}
}

func testRecord(id string) models.ProfileRecord {
	phone := "+27825551234"
	trust := models.TrustScore{Score: 720, Rating: models.TrustGood, UpdatedAt: fixedNow}
	return models.ProfileRecord{
		User: models.User{
			ID:            id,
			Email:         id + "@example.com",
			Name:          "Thandi",
			Phone:         &phone,
			WalletBalance: 150,
			TotalSavings:  2400,
			IsActive:      true,
		},
		Trust: &trust,
	}
}

// ── Start ────────────────────────────────────────────────────────────────────

func TestAuthManager_InitialState(t *testing.T) {
	f := newAuthFixture(t)

	assert.Equal(t, models.AuthStateInitializing, f.mgr.State())
	assert.True(t, f.mgr.IsLoading())
	assert.False(t, f.mgr.IsAuthenticated())
}

func TestAuthManager_Start_NoPersistedSession(t *testing.T) {
	f := newAuthFixture(t)

	f.mgr.Start(context.Background())

	assert.Equal(t, models.AuthStateUnauthenticated, f.mgr.State())
	assert.False(t, f.mgr.IsLoading())
	assert.Nil(t, f.mgr.User())
	assert.Nil(t, f.mgr.Identity())
}

func TestAuthManager_Start_SessionReadFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock.NewMockAuthBackend(ctrl)
	hub := backend.NewEventHub()

	b.EXPECT().OnAuthStateChange(gomock.Any()).
		DoAndReturn(func(h func(models.AuthChange)) models.AuthSubscription { return hub.Subscribe(h) })
	b.EXPECT().GetSession(gomock.Any()).Return(nil, errors.New("storage locked"))

	m := NewAuthManager(b, mock.NewMockProfileRepository(ctrl), nil, logger.Nop())
	t.Cleanup(m.Close)

	m.Start(context.Background())

	assert.Equal(t, models.AuthStateUnauthenticated, m.State())
	assert.False(t, m.IsLoading())
}

func TestAuthManager_Start_RestoresSession(t *testing.T) {
	f := newAuthFixture(t)
	s := testSession("user-1")
	f.setSession(s)

	rec := testRecord("user-1")
	rec.Trust = nil
	f.profiles.EXPECT().GetProfile(gomock.Any(), "user-1").Return(rec, nil)

	f.mgr.Start(context.Background())
	assert.Equal(t, models.AuthStateAuthenticated, f.mgr.State())

	f.waitIdle(t)
	u := f.mgr.User()
	require.NotNil(t, u)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, models.DefaultTrustScore(fixedNow), u.TrustScore)
	assert.True(t, f.mgr.IsAuthenticated())
}

func TestAuthManager_Start_ProfileReadFailureIsSwallowed(t *testing.T) {
	f := newAuthFixture(t)
	f.setSession(testSession("user-1"))
	f.profiles.EXPECT().GetProfile(gomock.Any(), "user-1").
		Return(models.ProfileRecord{}, adapter.NewAPIError(503, "", "upstream down"))

	f.mgr.Start(context.Background())
	f.waitIdle(t)

	assert.Nil(t, f.mgr.User())
	require.NotNil(t, f.mgr.Identity())
	assert.Equal(t, "user-1", f.mgr.Identity().ID)
	assert.Equal(t, models.AuthStateAuthenticated, f.mgr.State())
	assert.False(t, f.mgr.IsAuthenticated())
}

func TestAuthManager_Start_Twice(t *testing.T) {
	f := newAuthFixture(t)

	f.mgr.Start(context.Background())
	f.mgr.Start(context.Background())

	assert.Equal(t, 1, f.hub.Len())
}

// ── SignIn ───────────────────────────────────────────────────────────────────

func TestAuthManager_SignIn_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.mgr.Start(context.Background())

	s := testSession("user-1")
	f.backend.EXPECT().
		SignInWithPassword(gomock.Any(), models.Credentials{Email: "user-1@example.com", Password: "secret1"}).
		DoAndReturn(func(context.Context, models.Credentials) (models.Session, error) {
			f.setSession(s)
			return *s, nil
		})
	f.profiles.EXPECT().GetProfile(gomock.Any(), "user-1").Return(testRecord("user-1"), nil)

	touched := make(chan time.Time, 1)
	f.profiles.EXPECT().TouchLastLogin(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, at time.Time) error {
			touched <- at
			return nil
		})

	err := f.mgr.SignIn(context.Background(), "user-1@example.com", "secret1")
	require.NoError(t, err)

	u := f.mgr.User()
	id := f.mgr.Identity()
	require.NotNil(t, u)
	require.NotNil(t, id)
	assert.Equal(t, id.ID, u.ID)
	assert.Equal(t, 720, u.TrustScore.Score)
	assert.False(t, f.mgr.IsLoading())

	select {
	case at := <-touched:
		assert.Equal(t, fixedNow, at)
	case <-time.After(waitFor):
		t.Fatal("last login was not updated")
	}
}

func TestAuthManager_SignIn_LastLoginFailureNotSurfaced(t *testing.T) {
	f := newAuthFixture(t)

	s := testSession("user-1")
	f.backend.EXPECT().SignInWithPassword(gomock.Any(), gomock.Any()).Return(*s, nil)
	f.profiles.EXPECT().GetProfile(gomock.Any(), "user-1").Return(testRecord("user-1"), nil)
	f.profiles.EXPECT().TouchLastLogin(gomock.Any(), "user-1", gomock.Any()).
		Return(adapter.NewAPIError(403, "42501", "permission denied for table users"))

	err := f.mgr.SignIn(context.Background(), "user-1@example.com", "secret1")
	require.NoError(t, err)

	// Close waits for the background write
	f.mgr.Close()
	assert.True(t, f.mgr.IsAuthenticated())
}

func TestAuthManager_SignIn_Failure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "backend message",
			err:     &adapter.APIError{Status: 400, Code: "invalid_grant", Message: "Invalid login credentials"},
			wantMsg: "Invalid login credentials",
		},
		{
			name:    "error description",
			err:     &adapter.APIError{Status: 400, Description: "Email not confirmed"},
			wantMsg: "Email not confirmed",
		},
		{
			name:    "no message",
			err:     adapter.NewAPIError(400, "", ""),
			wantMsg: "failed to sign in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.mgr.Start(context.Background())

			f.backend.EXPECT().SignInWithPassword(gomock.Any(), gomock.Any()).Return(models.Session{}, tt.err)

			err := f.mgr.SignIn(context.Background(), "user@example.com", "wrong")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSignInFailed)
			assert.Equal(t, tt.wantMsg, err.Error())

			var opErr *OperationError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, ErrSignInFailed, opErr.Kind)

			assert.Nil(t, f.mgr.User())
			assert.Nil(t, f.mgr.Identity())
			assert.False(t, f.mgr.IsLoading())
		})
	}
}

// ── SignUp ───────────────────────────────────────────────────────────────────

// memoryProfiles keeps the rows sign-up writes so a later sign-in reads them
// back.
type memoryProfiles struct {
	mu       sync.Mutex
	profiles map[string]models.NewUserProfile
	trust    map[string]models.TrustMetricsRow
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{
		profiles: make(map[string]models.NewUserProfile),
		trust:    make(map[string]models.TrustMetricsRow),
	}
}

func (p *memoryProfiles) GetProfile(_ context.Context, userID string) (models.ProfileRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.profiles[userID]
	if !ok {
		return models.ProfileRecord{}, adapter.NewAPIError(406, "PGRST116", "no rows")
	}
	rec := models.ProfileRecord{User: models.User{
		ID:            row.ID,
		Email:         row.Email,
		Name:          row.Name,
		WalletBalance: row.WalletBalance,
		TotalSavings:  row.TotalSavings,
	}}
	if t, ok := p.trust[userID]; ok {
		score := t.TrustScore()
		rec.Trust = &score
	}
	return rec, nil
}

func (p *memoryProfiles) CreateProfile(_ context.Context, profile models.NewUserProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[profile.ID] = profile
	return nil
}

func (p *memoryProfiles) CreateTrustMetrics(_ context.Context, row models.TrustMetricsRow) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trust[row.UserID] = row
	return nil
}

func (p *memoryProfiles) UpdateProfile(context.Context, string, models.ProfileUpdate) error {
	return nil
}

func (p *memoryProfiles) TouchLastLogin(context.Context, string, time.Time) error {
	return nil
}

func TestAuthManager_SignUpThenSignIn_NeutralProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mock.NewMockAuthBackend(ctrl)
	profiles := newMemoryProfiles()

	identity := models.SessionIdentity{ID: "new-user", Email: "sipho@example.com"}
	b.EXPECT().
		SignUp(gomock.Any(), models.Credentials{Email: "sipho@example.com", Password: "secret1"}, map[string]any{"name": "Sipho"}).
		Return(models.SignUpResult{User: identity}, nil)
	b.EXPECT().SignInWithPassword(gomock.Any(), gomock.Any()).
		Return(models.Session{AccessToken: "a", User: identity}, nil)

	m := NewAuthManager(b, profiles, nil, logger.Nop())
	t.Cleanup(m.Close)

	require.NoError(t, m.SignUp(context.Background(), "sipho@example.com", "secret1", "Sipho"))
	require.NoError(t, m.SignIn(context.Background(), "sipho@example.com", "secret1"))

	u := m.User()
	require.NotNil(t, u)
	assert.Equal(t, "Sipho", u.Name)
	assert.Zero(t, u.WalletBalance)
	assert.Zero(t, u.TotalSavings)
	assert.Equal(t, 500, u.TrustScore.Score)
	assert.Equal(t, models.TrustFair, u.TrustScore.Rating)
	assert.Equal(t, models.TrustMetrics{}, u.TrustScore.Metrics)
}

func TestAuthManager_SignUp_Writes(t *testing.T) {
	f := newAuthFixture(t)

	identity := models.SessionIdentity{ID: "new-user", Email: "sipho@example.com"}
	f.backend.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.SignUpResult{User: identity}, nil)

	gomock.InOrder(
		f.profiles.EXPECT().CreateProfile(gomock.Any(), models.NewUserProfile{
			ID:    "new-user",
			Email: "sipho@example.com",
			Name:  "Sipho",
		}).Return(nil),
		f.profiles.EXPECT().CreateTrustMetrics(gomock.Any(), models.NewTrustMetricsRow("new-user")).Return(nil),
		f.profiles.EXPECT().GetProfile(gomock.Any(), "new-user").Return(testRecord("new-user"), nil),
	)

	require.NoError(t, f.mgr.SignUp(context.Background(), "sipho@example.com", "secret1", "Sipho"))
	require.NotNil(t, f.mgr.Identity())
	assert.Equal(t, "new-user", f.mgr.Identity().ID)
	assert.True(t, f.mgr.IsAuthenticated())
}

func TestAuthManager_SignUp_Failures(t *testing.T) {
	identity := models.SessionIdentity{ID: "new-user", Email: "sipho@example.com"}
	insertErr := adapter.NewAPIError(409, "23505", "duplicate key value violates unique constraint")

	tests := []struct {
		name     string
		password string
		setup    func(f *authFixture)
		wantMsg  string
	}{
		{
			name:     "invalid input",
			password: "123",
			setup:    func(*authFixture) {},
		},
		{
			name:     "backend rejects",
			password: "secret1",
			setup: func(f *authFixture) {
				f.backend.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.SignUpResult{}, &adapter.APIError{Status: 422, Message: "User already registered"})
			},
			wantMsg: "User already registered",
		},
		{
			name:     "profile insert fails",
			password: "secret1",
			setup: func(f *authFixture) {
				f.backend.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.SignUpResult{User: identity}, nil)
				f.profiles.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(insertErr)
			},
			wantMsg: "duplicate key value violates unique constraint",
		},
		{
			name:     "trust insert fails",
			password: "secret1",
			setup: func(f *authFixture) {
				f.backend.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.SignUpResult{User: identity}, nil)
				f.profiles.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(nil)
				f.profiles.EXPECT().CreateTrustMetrics(gomock.Any(), gomock.Any()).Return(insertErr)
			},
			wantMsg: "duplicate key value violates unique constraint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setup(f)

			err := f.mgr.SignUp(context.Background(), "sipho@example.com", tt.password, "Sipho")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSignUpFailed)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}

			assert.Nil(t, f.mgr.Identity())
			assert.Nil(t, f.mgr.User())
		})
	}
}

// ── SignOut ──────────────────────────────────────────────────────────────────

func signedIn(t *testing.T, f *authFixture, id string) {
	t.Helper()

	s := testSession(id)
	f.backend.EXPECT().SignInWithPassword(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.Credentials) (models.Session, error) {
			f.setSession(s)
			return *s, nil
		})
	f.profiles.EXPECT().GetProfile(gomock.Any(), id).Return(testRecord(id), nil).AnyTimes()
	f.profiles.EXPECT().TouchLastLogin(gomock.Any(), id, gomock.Any()).Return(nil)

	require.NoError(t, f.mgr.SignIn(context.Background(), s.User.Email, "secret1"))
	require.True(t, f.mgr.IsAuthenticated())
}

func TestAuthManager_SignOut_ClearsState(t *testing.T) {
	tests := []struct {
		name     string
		signedIn bool
	}{
		{name: "from authenticated", signedIn: true},
		{name: "from unauthenticated", signedIn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.mgr.Start(context.Background())
			if tt.signedIn {
				signedIn(t, f, "user-1")
			}

			f.backend.EXPECT().SignOut(gomock.Any()).DoAndReturn(func(context.Context) error {
				f.setSession(nil)
				return nil
			})

			require.NoError(t, f.mgr.SignOut(context.Background()))
			assert.Nil(t, f.mgr.User())
			assert.Nil(t, f.mgr.Identity())
			assert.Equal(t, models.AuthStateUnauthenticated, f.mgr.State())
		})
	}
}

func TestAuthManager_SignOut_Failure(t *testing.T) {
	f := newAuthFixture(t)
	signedIn(t, f, "user-1")

	f.backend.EXPECT().SignOut(gomock.Any()).Return(adapter.NewAPIError(500, "", "Internal error"))

	err := f.mgr.SignOut(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignOutFailed)
	assert.Equal(t, "Internal error", err.Error())
	assert.True(t, f.mgr.IsAuthenticated())
}

// ── UpdateProfile ────────────────────────────────────────────────────────────

func TestAuthManager_UpdateProfile_Unauthenticated(t *testing.T) {
	f := newAuthFixture(t)
	f.mgr.Start(context.Background())
	before := f.mgr.Snapshot()

	name := "X"
	err := f.mgr.UpdateProfile(context.Background(), models.ProfileUpdate{Name: &name})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoUserLoggedIn)
	assert.Equal(t, "no user logged in", err.Error())
	assert.Equal(t, before, f.mgr.Snapshot())
}

func TestAuthManager_UpdateProfile_MergesOnlyPresentFields(t *testing.T) {
	f := newAuthFixture(t)
	signedIn(t, f, "user-1")
	before := f.mgr.User()

	name := "X"
	f.profiles.EXPECT().UpdateProfile(gomock.Any(), "user-1", models.ProfileUpdate{Name: &name}).Return(nil)

	require.NoError(t, f.mgr.UpdateProfile(context.Background(), models.ProfileUpdate{Name: &name}))

	want := *before
	want.Name = "X"
	assert.Equal(t, &want, f.mgr.User())
}

func TestAuthManager_UpdateProfile_MetadataIsNotShared(t *testing.T) {
	f := newAuthFixture(t)
	signedIn(t, f, "user-1")

	f.profiles.EXPECT().UpdateProfile(gomock.Any(), "user-1", gomock.Any()).Return(nil)

	meta := map[string]any{"theme": "dark"}
	require.NoError(t, f.mgr.UpdateProfile(context.Background(), models.ProfileUpdate{Metadata: meta}))

	meta["theme"] = "light"
	got := f.mgr.User()
	require.NotNil(t, got)
	got.Metadata["theme"] = "neon"
	f.mgr.Snapshot().User.Metadata["extra"] = true

	assert.Equal(t, map[string]any{"theme": "dark"}, f.mgr.User().Metadata)
}

func TestAuthManager_UpdateProfile_NormalisesPhone(t *testing.T) {
	f := newAuthFixture(t)
	signedIn(t, f, "user-1")

	raw := "082 555 9876"
	f.profiles.EXPECT().UpdateProfile(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, u models.ProfileUpdate) error {
			require.NotNil(t, u.Phone)
			assert.Equal(t, "+27825559876", *u.Phone)
			return nil
		})

	require.NoError(t, f.mgr.UpdateProfile(context.Background(), models.ProfileUpdate{Phone: &raw}))
	assert.Equal(t, "+27825559876", *f.mgr.User().Phone)
}

func TestAuthManager_UpdateProfile_Failures(t *testing.T) {
	t.Run("invalid phone", func(t *testing.T) {
		f := newAuthFixture(t)
		signedIn(t, f, "user-1")
		before := f.mgr.User()

		phone := "12"
		err := f.mgr.UpdateProfile(context.Background(), models.ProfileUpdate{Phone: &phone})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUpdateProfileFailed)
		assert.Equal(t, before, f.mgr.User())
	})

	t.Run("backend rejects", func(t *testing.T) {
		f := newAuthFixture(t)
		signedIn(t, f, "user-1")
		before := f.mgr.User()

		f.profiles.EXPECT().UpdateProfile(gomock.Any(), "user-1", gomock.Any()).
			Return(adapter.NewAPIError(403, "42501", "new row violates row-level security policy"))

		name := "X"
		err := f.mgr.UpdateProfile(context.Background(), models.ProfileUpdate{Name: &name})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUpdateProfileFailed)
		assert.ErrorIs(t, err, adapter.ErrForbidden)
		assert.Equal(t, "failed to update profile", err.Error())
		assert.Equal(t, before, f.mgr.User())
	})
}

// ── Notifications ────────────────────────────────────────────────────────────

func TestAuthManager_PushedSignOutClearsProfile(t *testing.T) {
	f := newAuthFixture(t)
	f.mgr.Start(context.Background())
	signedIn(t, f, "user-1")

	f.setSession(nil)
	f.hub.Publish(models.AuthChange{Event: models.EventSignedOut})

	require.Eventually(t, func() bool { return f.mgr.User() == nil }, waitFor, tick)
	assert.Nil(t, f.mgr.Identity())
	assert.False(t, f.mgr.IsAuthenticated())
}

func TestAuthManager_PushedSignIn(t *testing.T) {
	f := newAuthFixture(t)
	f.mgr.Start(context.Background())

	s := testSession("user-2")
	f.setSession(s)
	f.profiles.EXPECT().GetProfile(gomock.Any(), "user-2").Return(testRecord("user-2"), nil)

	f.hub.Publish(models.AuthChange{Event: models.EventSignedIn, Session: s})

	require.Eventually(t, func() bool { return f.mgr.IsAuthenticated() }, waitFor, tick)
	assert.Equal(t, "user-2", f.mgr.User().ID)
}

func TestAuthManager_StaleSignInIgnored(t *testing.T) {
	f := newAuthFixture(t)
	f.mgr.Start(context.Background())

	// the backend no longer holds this session
	f.hub.Publish(models.AuthChange{Event: models.EventSignedIn, Session: testSession("user-2")})
	f.hub.Publish(models.AuthChange{Event: models.EventTokenRefreshed, Session: testSession("user-2")})

	// a marker event proves both were handled
	f.hub.Publish(models.AuthChange{Event: models.EventSignedOut})
	require.Eventually(t, func() bool { return !f.mgr.IsLoading() }, waitFor, tick)
	time.Sleep(20 * time.Millisecond)

	assert.Nil(t, f.mgr.Identity())
	assert.Nil(t, f.mgr.User())
}

func TestAuthManager_Close_StopsNotifications(t *testing.T) {
	f := newAuthFixture(t)
	f.mgr.Start(context.Background())
	signedIn(t, f, "user-1")

	f.mgr.Close()
	assert.Equal(t, 0, f.hub.Len())

	f.hub.Publish(models.AuthChange{Event: models.EventSignedOut})
	time.Sleep(20 * time.Millisecond)

	assert.True(t, f.mgr.IsAuthenticated())
}

func TestAuthManager_ProfileOfReplacedIdentityDiscarded(t *testing.T) {
	f := newAuthFixture(t)

	f.mgr.adopt(models.SessionIdentity{ID: "user-1"})
	assert.True(t, f.mgr.setProfile("user-1", testRecord("user-1").Resolve(fixedNow)))

	f.mgr.adopt(models.SessionIdentity{ID: "user-2"})
	assert.Nil(t, f.mgr.User(), "adopting another identity drops the old profile")
	assert.False(t, f.mgr.setProfile("user-1", testRecord("user-1").Resolve(fixedNow)))
	assert.Nil(t, f.mgr.User())
}

// ── Password ─────────────────────────────────────────────────────────────────

func TestAuthManager_ResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.mgr.Start(context.Background())
	f.waitIdle(t)

	f.backend.EXPECT().SiteURL().Return("https://pools.example.co.za").Times(2)
	gomock.InOrder(
		f.backend.EXPECT().
			ResetPasswordForEmail(gomock.Any(), "thandi@example.com", "https://pools.example.co.za/reset-password").
			Return(nil),
		f.backend.EXPECT().ResetPasswordForEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&adapter.APIError{Status: 429, Message: "For security purposes, you can only request this once every 60 seconds"}),
	)

	require.NoError(t, f.mgr.ResetPassword(context.Background(), "thandi@example.com"))

	err := f.mgr.ResetPassword(context.Background(), "thandi@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResetPasswordFailed)
	assert.Contains(t, err.Error(), "60 seconds")
	assert.False(t, f.mgr.IsLoading())
	assert.Equal(t, models.AuthStateUnauthenticated, f.mgr.State())
}

func TestAuthManager_UpdatePassword(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.backend.EXPECT().UpdatePassword(gomock.Any(), "n3w-secret").
			Return(models.SessionIdentity{}, backend.ErrNoSession)

		err := f.mgr.UpdatePassword(context.Background(), "n3w-secret")
		assert.ErrorIs(t, err, ErrNoUserLoggedIn)
	})

	t.Run("updated", func(t *testing.T) {
		f := newAuthFixture(t)
		signedIn(t, f, "user-1")

		f.backend.EXPECT().UpdatePassword(gomock.Any(), "n3w-secret").
			Return(models.SessionIdentity{ID: "user-1", Email: "new@example.com"}, nil)

		require.NoError(t, f.mgr.UpdatePassword(context.Background(), "n3w-secret"))
		assert.Equal(t, "new@example.com", f.mgr.Identity().Email)
		assert.True(t, f.mgr.IsAuthenticated())
	})
}

// ── RefreshProfile ───────────────────────────────────────────────────────────

func TestAuthManager_RefreshProfile(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		f := newAuthFixture(t)
		assert.ErrorIs(t, f.mgr.RefreshProfile(context.Background()), ErrNoUserLoggedIn)
	})

	t.Run("replaces local merge", func(t *testing.T) {
		f := newAuthFixture(t)
		s := testSession("user-1")
		f.backend.EXPECT().SignInWithPassword(gomock.Any(), gomock.Any()).Return(*s, nil)
		f.profiles.EXPECT().TouchLastLogin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		fresh := testRecord("user-1")
		fresh.User.WalletBalance = 999
		gomock.InOrder(
			f.profiles.EXPECT().GetProfile(gomock.Any(), "user-1").Return(testRecord("user-1"), nil),
			f.profiles.EXPECT().GetProfile(gomock.Any(), "user-1").Return(fresh, nil),
		)

		require.NoError(t, f.mgr.SignIn(context.Background(), "user-1@example.com", "secret1"))
		require.NoError(t, f.mgr.RefreshProfile(context.Background()))
		assert.Equal(t, float64(999), f.mgr.User().WalletBalance)
	})

	t.Run("read fails", func(t *testing.T) {
		f := newAuthFixture(t)
		f.mgr.adopt(models.SessionIdentity{ID: "user-1"})
		f.profiles.EXPECT().GetProfile(gomock.Any(), "user-1").
			Return(models.ProfileRecord{}, adapter.NewAPIError(502, "", ""))

		err := f.mgr.RefreshProfile(context.Background())
		assert.ErrorIs(t, err, ErrFetchProfileFailed)
		assert.Equal(t, "failed to fetch profile", err.Error())
	})
}

func TestAuthManager_Snapshot(t *testing.T) {
	f := newAuthFixture(t)
	f.mgr.Start(context.Background())
	signedIn(t, f, "user-1")

	snap := f.mgr.Snapshot()
	assert.Equal(t, models.AuthStateAuthenticated, snap.State)
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	require.NotNil(t, snap.User)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, snap.Identity.ID, snap.User.ID)

	// the snapshot is a copy
	snap.User.Name = "changed"
	assert.Equal(t, "Thandi", f.mgr.User().Name)
}
