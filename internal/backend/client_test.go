package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/crypto"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/mock"
	"github.com/MKhiriev/ubuntu-pools/internal/utils"
	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testURL     = "https://abcd.supabase.co"
	testUserID  = "6f1c1a2e-6b7e-4a8e-9d55-2b9b1f0c7e11"
	testSecret  = "0123456789abcdef-storage-key"
	testStorage = "sb-abcd-auth-token"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() config.ClientConfig {
	return config.ClientConfig{
		Backend: config.ClientBackend{
			URL:                testURL,
			AnonKey:            "anon",
			Schema:             "public",
			SiteURL:            "http://localhost:5173/",
			AutoRefreshToken:   true,
			PersistSession:     true,
			DetectSessionInURL: true,
		},
		Workers: config.ClientWorkers{
			RefreshInterval: 10 * time.Millisecond,
			RefreshMargin:   time.Minute,
		},
	}
}

func newTestClient(t *testing.T, ctrl *gomock.Controller, storage SessionStorage) (*Client, *mock.MockBackendAdapter) {
	t.Helper()

	ad := mock.NewMockBackendAdapter(ctrl)
	sealer, err := crypto.NewSessionSealer(testSecret, "abcd")
	require.NoError(t, err)

	c, err := New(testConfig(), ad, storage, sealer, logger.Nop())
	require.NoError(t, err)
	c.now = func() time.Time { return testNow }
	t.Cleanup(c.Close)

	return c, ad
}

func testSession(token string, expiresIn time.Duration) models.Session {
	return models.Session{
		AccessToken:  "access-" + token,
		TokenType:    "bearer",
		RefreshToken: "refresh-" + token,
		ExpiresAt:    testNow.Add(expiresIn).Unix(),
		User:         models.SessionIdentity{ID: testUserID, Email: "thandi@example.com"},
	}
}

// collect subscribes and returns a channel of received events.
func collect(t *testing.T, c *Client) <-chan models.AuthChange {
	t.Helper()
	ch := make(chan models.AuthChange, 16)
	sub := c.OnAuthStateChange(func(change models.AuthChange) { ch <- change })
	t.Cleanup(sub.Unsubscribe)
	return ch
}

func nextEvent(t *testing.T, ch <-chan models.AuthChange) models.AuthChange {
	t.Helper()
	select {
	case change := <-ch:
		return change
	case <-time.After(time.Second):
		t.Fatal("no auth event delivered")
		return models.AuthChange{}
	}
}

// ── construction ────────────────────────────────────────────────────────────

func TestNew_MissingBackendConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Backend.AnonKey = ""

	_, err := New(cfg, nil, nil, nil, logger.Nop())

	assert.ErrorIs(t, err, config.ErrMissingBackendConfig)
}

func TestNew_StorageKeyAndReadiness(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, _ := newTestClient(t, ctrl, NewMemoryStorage())

	assert.Equal(t, testStorage, c.StorageKey())
	assert.True(t, c.IsConfigured())
	assert.Equal(t, "http://localhost:5173", c.SiteURL())
	assert.True(t, IsConfigured(testConfig().Backend))
	assert.False(t, IsConfigured(config.ClientBackend{URL: testURL}))
}

func TestProjectRef(t *testing.T) {
	ref, err := ProjectRef("http://localhost:54321")
	require.NoError(t, err)
	assert.Equal(t, "localhost", ref)

	_, err = ProjectRef("not a url")
	assert.Error(t, err)
}

// ── sessions ────────────────────────────────────────────────────────────────

func TestGetSession_NothingPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, _ := newTestClient(t, ctrl, NewMemoryStorage())

	s, err := c.GetSession(context.Background())

	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSignInWithPassword_PersistsSealedSessionAndEmits(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMemoryStorage()
	c, ad := newTestClient(t, ctrl, storage)
	events := collect(t, c)
	ctx := context.Background()

	session := testSession("1", time.Hour)
	creds := models.Credentials{Email: "thandi@example.com", Password: "s3cret!"}
	ad.EXPECT().SignInWithPassword(ctx, creds).Return(session, nil)

	got, err := c.SignInWithPassword(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	change := nextEvent(t, events)
	assert.Equal(t, models.EventSignedIn, change.Event)
	require.NotNil(t, change.Session)
	assert.Equal(t, testUserID, change.Session.User.ID)

	raw, _ := storage.GetItem(ctx, testStorage)
	require.NotEmpty(t, raw)
	assert.NotContains(t, raw, "access-1", "persisted session must be sealed")

	// a second client over the same storage restores the session offline
	restored, _ := newTestClient(t, ctrl, storage)
	s, err := restored.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "access-1", s.AccessToken)
}

func TestSignInWithPassword_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()

	ad.EXPECT().SignInWithPassword(ctx, gomock.Any()).Return(models.Session{}, fmt.Errorf("invalid: %w", adapter.ErrBadRequest))

	_, err := c.SignInWithPassword(ctx, models.Credentials{Email: "a@b.co", Password: "x"})
	require.ErrorIs(t, err, adapter.ErrBadRequest)

	s, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestGetSession_DropsUnreadableEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMemoryStorage()
	require.NoError(t, storage.SetItem(context.Background(), testStorage, "garbage"))
	c, _ := newTestClient(t, ctrl, storage)

	s, err := c.GetSession(context.Background())

	require.NoError(t, err)
	assert.Nil(t, s)
	raw, _ := storage.GetItem(context.Background(), testStorage)
	assert.Empty(t, raw)
}

func TestGetSession_PlainStorageWithoutSealer(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMemoryStorage()
	payload, _ := json.Marshal(testSession("1", time.Hour))
	require.NoError(t, storage.SetItem(context.Background(), testStorage, string(payload)))

	c, err := New(testConfig(), mock.NewMockBackendAdapter(ctrl), storage, nil, logger.Nop())
	require.NoError(t, err)
	c.now = func() time.Time { return testNow }

	s, err := c.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "access-1", s.AccessToken)
}

func TestGetSession_RefreshesExpiringSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()
	c.saveSession(ctx, testSession("1", 30*time.Second))
	events := collect(t, c)

	fresh := testSession("2", time.Hour)
	ad.EXPECT().RefreshToken(ctx, "refresh-1").Return(fresh, nil)

	s, err := c.GetSession(ctx)

	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "access-2", s.AccessToken)
	assert.Equal(t, models.EventTokenRefreshed, nextEvent(t, events).Event)
}

func TestGetSession_RejectedRefreshSignsOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMemoryStorage()
	c, ad := newTestClient(t, ctrl, storage)
	ctx := context.Background()
	c.saveSession(ctx, testSession("1", -time.Minute))
	events := collect(t, c)

	ad.EXPECT().RefreshToken(ctx, "refresh-1").Return(models.Session{}, fmt.Errorf("invalid_grant: %w", adapter.ErrBadRequest))

	s, err := c.GetSession(ctx)

	require.NoError(t, err)
	assert.Nil(t, s)
	change := nextEvent(t, events)
	assert.Equal(t, models.EventSignedOut, change.Event)
	assert.Nil(t, change.Session)
	raw, _ := storage.GetItem(ctx, testStorage)
	assert.Empty(t, raw)
}

func TestGetSession_RefreshNetworkErrorKeepsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()
	c.saveSession(ctx, testSession("1", 10*time.Second))

	ad.EXPECT().RefreshToken(ctx, "refresh-1").Return(models.Session{}, errors.New("connection refused"))

	_, err := c.GetSession(ctx)
	require.Error(t, err)

	cur, err := c.currentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "access-1", cur.AccessToken)
}

func TestRefreshSession_NoSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, _ := newTestClient(t, ctrl, NewMemoryStorage())

	_, err := c.RefreshSession(context.Background())

	assert.ErrorIs(t, err, ErrNoSession)
}

// ── sign-up / sign-out ──────────────────────────────────────────────────────

func TestSignUp_PassesMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()

	session := testSession("1", time.Hour)
	ad.EXPECT().SignUp(ctx, adapter.SignUpRequest{
		Email:    "thandi@example.com",
		Password: "s3cret!",
		Data:     map[string]any{"name": "Thandi"},
	}).Return(models.SignUpResult{User: session.User, Session: &session}, nil)

	res, err := c.SignUp(ctx, models.Credentials{Email: "thandi@example.com", Password: "s3cret!"}, map[string]any{"name": "Thandi"})

	require.NoError(t, err)
	assert.Equal(t, testUserID, res.User.ID)
	s, _ := c.GetSession(ctx)
	require.NotNil(t, s)
}

func TestSignOut_ClearsSessionEvenIfBackendForgotIt(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()
	c.saveSession(ctx, testSession("1", time.Hour))
	events := collect(t, c)

	ad.EXPECT().SignOut(ctx, "access-1").Return(fmt.Errorf("session gone: %w", adapter.ErrUnauthorized))

	require.NoError(t, c.SignOut(ctx))
	assert.Equal(t, models.EventSignedOut, nextEvent(t, events).Event)
	s, _ := c.GetSession(ctx)
	assert.Nil(t, s)
}

func TestSignOut_ServerErrorKeepsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()
	c.saveSession(ctx, testSession("1", time.Hour))

	ad.EXPECT().SignOut(ctx, "access-1").Return(fmt.Errorf("boom: %w", adapter.ErrInternalServerError))

	require.ErrorIs(t, c.SignOut(ctx), adapter.ErrInternalServerError)
	s, _ := c.GetSession(ctx)
	assert.NotNil(t, s)
}

func TestSignOut_WithoutSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, _ := newTestClient(t, ctrl, NewMemoryStorage())
	events := collect(t, c)

	require.NoError(t, c.SignOut(context.Background()))
	assert.Equal(t, models.EventSignedOut, nextEvent(t, events).Event)
}

func TestUpdatePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()
	c.saveSession(ctx, testSession("1", time.Hour))
	events := collect(t, c)

	password := "n3w-secret"
	identity := models.SessionIdentity{ID: testUserID, Email: "thandi@example.com", Role: "authenticated"}
	ad.EXPECT().UpdateUser(ctx, "access-1", adapter.UserAttributes{Password: &password}).Return(identity, nil)

	got, err := c.UpdatePassword(ctx, password)

	require.NoError(t, err)
	assert.Equal(t, identity, got)
	assert.Equal(t, models.EventUserUpdated, nextEvent(t, events).Event)
}

func TestResetPasswordForEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()

	ad.EXPECT().Recover(ctx, "thandi@example.com", "http://localhost:5173/reset-password").Return(nil)

	assert.NoError(t, c.ResetPasswordForEmail(ctx, "thandi@example.com", "http://localhost:5173/reset-password"))
}

// ── session in url ──────────────────────────────────────────────────────────

func signedAccessToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	claims := utils.AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: "authenticated",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestSessionFromURL_Recovery(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()
	events := collect(t, c)

	tok := signedAccessToken(t, testUserID, testNow.Add(2*time.Hour))
	identity := models.SessionIdentity{ID: testUserID, Email: "thandi@example.com"}
	ad.EXPECT().GetUser(ctx, tok).Return(identity, nil)

	s, kind, err := c.SessionFromURL(ctx, "http://localhost:5173/reset-password#access_token="+tok+"&refresh_token=ref&expires_in=3600&token_type=bearer&type=recovery")

	require.NoError(t, err)
	assert.Equal(t, RedirectTypeRecovery, kind)
	assert.Equal(t, tok, s.AccessToken)
	assert.Equal(t, "ref", s.RefreshToken)
	assert.Equal(t, testNow.Add(time.Hour).Unix(), s.ExpiresAt)
	assert.Equal(t, identity, s.User)

	assert.Equal(t, models.EventSignedIn, nextEvent(t, events).Event)
	assert.Equal(t, models.EventPasswordRecovery, nextEvent(t, events).Event)
}

func TestSessionFromURL_ExpiryFromClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()

	exp := testNow.Add(30 * time.Minute)
	tok := signedAccessToken(t, testUserID, exp)
	ad.EXPECT().GetUser(ctx, tok).Return(models.SessionIdentity{ID: testUserID}, nil)

	s, kind, err := c.SessionFromURL(ctx, "http://localhost:5173/auth/callback?access_token="+tok+"&refresh_token=ref&type=magiclink")

	require.NoError(t, err)
	assert.Equal(t, RedirectTypeMagic, kind)
	assert.Equal(t, exp.Unix(), s.ExpiresAt)
}

func TestSessionFromURL_RejectsForeignToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()

	_, _, err := c.SessionFromURL(ctx, "http://localhost:5173/auth/callback#access_token=not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidRedirectToken)

	tok := signedAccessToken(t, "someone-else", testNow.Add(time.Hour))
	ad.EXPECT().GetUser(ctx, tok).Return(models.SessionIdentity{ID: testUserID}, nil)

	_, _, err = c.SessionFromURL(ctx, "http://localhost:5173/auth/callback#access_token="+tok)
	assert.ErrorIs(t, err, ErrInvalidRedirectToken)

	s, err := c.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionFromURL_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, _ := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()

	_, _, err := c.SessionFromURL(ctx, "http://localhost:5173/auth/callback#error=access_denied&error_code=otp_expired&error_description=Email+link+is+invalid+or+has+expired")
	var cbErr *CallbackError
	require.True(t, errors.As(err, &cbErr))
	assert.Equal(t, "otp_expired", cbErr.Code)
	assert.Equal(t, "Email link is invalid or has expired", ErrorMessage(err))

	_, _, err = c.SessionFromURL(ctx, "http://localhost:5173/auth/callback")
	assert.ErrorIs(t, err, ErrNoSessionInURL)

	c.cfg.DetectSessionInURL = false
	_, _, err = c.SessionFromURL(ctx, "http://localhost:5173/auth/callback#access_token=tok")
	assert.ErrorIs(t, err, ErrURLDetectionDisabled)
}

// ── data api ────────────────────────────────────────────────────────────────

func TestFrom_SingleSelectUsesSessionToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()
	c.saveSession(ctx, testSession("1", time.Hour))

	ad.EXPECT().Rest(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req adapter.RestRequest) (adapter.RestResponse, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "users", req.Table)
		assert.Equal(t, "*,trust_score:trust_metrics(*)", req.Query.Get("select"))
		assert.Equal(t, "eq."+testUserID, req.Query.Get("id"))
		assert.Equal(t, "access-1", req.AccessToken)
		assert.True(t, req.Single)
		return adapter.RestResponse{Status: http.StatusOK, Body: []byte(`{"id":"` + testUserID + `","name":"Thandi"}`), Total: -1}, nil
	})

	var row struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := c.From("users").
		Select(`
			*,
			trust_score:trust_metrics(*)
		`).
		Eq("id", testUserID).
		Single().
		ExecuteInto(ctx, &row)

	require.NoError(t, err)
	assert.Equal(t, "Thandi", row.Name)
}

func TestFrom_InsertAnonymousWithRepresentation(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()

	ad.EXPECT().Rest(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req adapter.RestRequest) (adapter.RestResponse, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Empty(t, req.AccessToken)
		assert.True(t, req.ReturnRepresentation)
		assert.Equal(t, map[string]any{"name": "Pool A"}, req.Body)
		return adapter.RestResponse{Status: http.StatusCreated, Body: []byte(`[{"id":"p1"}]`), Total: -1}, nil
	})

	res, err := c.From("pools").Insert(map[string]any{"name": "Pool A"}).Select("*").Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.Status)
}

func TestFrom_ListParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	ctx := context.Background()

	ad.EXPECT().Rest(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req adapter.RestRequest) (adapter.RestResponse, error) {
		assert.Equal(t, "in.(a,\"b,c\")", req.Query.Get("status"))
		assert.Equal(t, "created_at.desc,name.asc", req.Query.Get("order"))
		assert.Equal(t, "20", req.Query.Get("limit"))
		assert.Equal(t, "40", req.Query.Get("offset"))
		assert.True(t, req.Count)
		return adapter.RestResponse{Status: http.StatusOK, Body: []byte(`[]`), Total: 57}, nil
	})

	res, err := c.From("pools").
		Select("*").
		In("status", "a", "b,c").
		Order("created_at", false).
		Order("name", true).
		Limit(20).
		Offset(40).
		Count().
		Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, 57, res.Count)
}

func TestFrom_EmptyTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, _ := newTestClient(t, ctrl, NewMemoryStorage())

	_, err := c.From("").Execute(context.Background())

	assert.ErrorIs(t, err, ErrEmptyTable)
}

// ── auto refresh ────────────────────────────────────────────────────────────

func TestStartAutoRefresh_RefreshesExpiringSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, ad := newTestClient(t, ctrl, NewMemoryStorage())
	c.saveSession(context.Background(), testSession("1", 30*time.Second))

	refreshed := make(chan struct{})
	ad.EXPECT().RefreshToken(gomock.Any(), "refresh-1").DoAndReturn(func(context.Context, string) (models.Session, error) {
		close(refreshed)
		return testSession("2", time.Hour), nil
	})

	c.StartAutoRefresh(context.Background())
	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("session was not refreshed")
	}
	c.StopAutoRefresh()

	s, err := c.currentSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-2", s.AccessToken)
}

func TestStopAutoRefresh_BeforeStart_NoPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	c, _ := newTestClient(t, ctrl, NewMemoryStorage())

	assert.NotPanics(t, c.StopAutoRefresh)
}
