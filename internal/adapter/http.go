package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/utils"
	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/go-resty/resty/v2"
)

const (
	authPath = "/auth/v1"
	restPath = "/rest/v1"

	singleObjectMediaType = "application/vnd.pgrst.object+json"
)

type idGenerator interface {
	Generate() string
}

type httpBackendAdapter struct {
	client *utils.HTTPClient

	anonKey string
	schema  string
	ids     idGenerator
	now     func() time.Time

	logger *logger.Logger
}

// NewHTTPBackendAdapter builds the resty implementation of [BackendAdapter].
// Every request carries the public key in the apikey header, the configured
// X-Client-Info and an X-Request-Id taken from the context or generated.
func NewHTTPBackendAdapter(cfg config.ClientBackend, log *logger.Logger) (BackendAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("invalid backend config: %w", config.ErrMissingBackendConfig)
	}

	client := utils.NewHTTPClient(utils.HTTPClientOptions{
		BaseURL:    baseURL,
		APIKey:     cfg.AnonKey,
		ClientInfo: cfg.ClientInfo,
		Timeout:    cfg.RequestTimeout,
	})

	schema := cfg.Schema
	if schema == "" {
		schema = config.DefaultSchema
	}

	return &httpBackendAdapter{
		client:  client,
		anonKey: cfg.AnonKey,
		schema:  schema,
		ids:     utils.NewUUIDGenerator(),
		now:     time.Now,
		logger:  log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("address must include http(s) scheme and host")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SignInWithPassword implements [BackendAdapter] via
// POST /auth/v1/token?grant_type=password.
func (h *httpBackendAdapter) SignInWithPassword(ctx context.Context, creds models.Credentials) (models.Session, error) {
	var session models.Session

	resp, err := h.authedRequest(ctx, "").
		SetQueryParam("grant_type", "password").
		SetBody(creds).
		SetResult(&session).
		Post(authPath + "/token")
	if err != nil {
		return models.Session{}, fmt.Errorf("sign in request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	return h.normalizeSession(session)
}

// SignUp implements [BackendAdapter] via POST /auth/v1/signup. The response
// is a session when the account is usable right away and a bare identity when
// e-mail confirmation is pending.
func (h *httpBackendAdapter) SignUp(ctx context.Context, req SignUpRequest) (models.SignUpResult, error) {
	r := h.authedRequest(ctx, "").SetBody(req)
	if req.RedirectTo != "" {
		r.SetQueryParam("redirect_to", req.RedirectTo)
	}

	resp, err := r.Post(authPath + "/signup")
	if err != nil {
		return models.SignUpResult{}, fmt.Errorf("sign up request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SignUpResult{}, err
	}

	var session models.Session
	if err = json.Unmarshal(resp.Body(), &session); err != nil {
		return models.SignUpResult{}, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	if session.AccessToken != "" {
		session, err = h.normalizeSession(session)
		if err != nil {
			return models.SignUpResult{}, err
		}
		return models.SignUpResult{User: session.User, Session: &session}, nil
	}

	var identity models.SessionIdentity
	if err = json.Unmarshal(resp.Body(), &identity); err != nil {
		return models.SignUpResult{}, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	if identity.ID == "" {
		return models.SignUpResult{}, fmt.Errorf("%w: sign up response has no user", ErrDecodeResponse)
	}

	return models.SignUpResult{User: identity}, nil
}

// RefreshToken implements [BackendAdapter] via
// POST /auth/v1/token?grant_type=refresh_token.
func (h *httpBackendAdapter) RefreshToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var session models.Session

	resp, err := h.authedRequest(ctx, "").
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&session).
		Post(authPath + "/token")
	if err != nil {
		return models.Session{}, fmt.Errorf("refresh token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	return h.normalizeSession(session)
}

// SignOut implements [BackendAdapter] via POST /auth/v1/logout.
func (h *httpBackendAdapter) SignOut(ctx context.Context, accessToken string) error {
	resp, err := h.authedRequest(ctx, accessToken).Post(authPath + "/logout")
	if err != nil {
		return fmt.Errorf("sign out request: %w", err)
	}

	return mapHTTPError(resp)
}

// Recover implements [BackendAdapter] via POST /auth/v1/recover.
func (h *httpBackendAdapter) Recover(ctx context.Context, email, redirectTo string) error {
	r := h.authedRequest(ctx, "").SetBody(map[string]string{"email": email})
	if redirectTo != "" {
		r.SetQueryParam("redirect_to", redirectTo)
	}

	resp, err := r.Post(authPath + "/recover")
	if err != nil {
		return fmt.Errorf("recover request: %w", err)
	}

	return mapHTTPError(resp)
}

// GetUser implements [BackendAdapter] via GET /auth/v1/user.
func (h *httpBackendAdapter) GetUser(ctx context.Context, accessToken string) (models.SessionIdentity, error) {
	var identity models.SessionIdentity

	resp, err := h.authedRequest(ctx, accessToken).
		SetResult(&identity).
		Get(authPath + "/user")
	if err != nil {
		return models.SessionIdentity{}, fmt.Errorf("get user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SessionIdentity{}, err
	}

	return identity, nil
}

// UpdateUser implements [BackendAdapter] via PUT /auth/v1/user.
func (h *httpBackendAdapter) UpdateUser(ctx context.Context, accessToken string, attrs UserAttributes) (models.SessionIdentity, error) {
	var identity models.SessionIdentity

	resp, err := h.authedRequest(ctx, accessToken).
		SetBody(attrs).
		SetResult(&identity).
		Put(authPath + "/user")
	if err != nil {
		return models.SessionIdentity{}, fmt.Errorf("update user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SessionIdentity{}, err
	}

	return identity, nil
}

// Rest implements [BackendAdapter] against /rest/v1/<table>.
func (h *httpBackendAdapter) Rest(ctx context.Context, req RestRequest) (RestResponse, error) {
	if req.Table == "" {
		return RestResponse{}, fmt.Errorf("%w: empty table name", ErrBadRequest)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	r := h.authedRequest(ctx, req.AccessToken)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}

	switch method {
	case http.MethodGet, http.MethodHead:
		r.SetHeader(utils.HeaderAcceptProfile, h.schema)
	default:
		r.SetHeader(utils.HeaderContentProfile, h.schema)
		if req.Body != nil {
			r.SetBody(req.Body)
		}
	}

	if req.Single {
		r.SetHeader("Accept", singleObjectMediaType)
	}
	if prefer := preferHeader(method, req); prefer != "" {
		r.SetHeader(utils.HeaderPrefer, prefer)
	}

	resp, err := r.Execute(method, restPath+"/"+url.PathEscape(req.Table))
	if err != nil {
		return RestResponse{}, fmt.Errorf("%s %s request: %w", method, req.Table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Err(err).
			Str("func", "httpBackendAdapter.Rest").
			Str("method", method).
			Str("table", req.Table).
			Msg("data api call rejected")
		return RestResponse{}, err
	}

	return RestResponse{
		Status: resp.StatusCode(),
		Body:   resp.Body(),
		Total:  parseContentRangeTotal(resp.Header().Get("Content-Range")),
		Header: resp.Header(),
	}, nil
}

func preferHeader(method string, req RestRequest) string {
	var parts []string
	if method != http.MethodGet && method != http.MethodHead {
		if req.ReturnRepresentation {
			parts = append(parts, "return=representation")
		} else {
			parts = append(parts, "return=minimal")
		}
	}
	if req.Count {
		parts = append(parts, "count=exact")
	}
	return strings.Join(parts, ",")
}

// parseContentRangeTotal reads the total of a "0-24/3573" header, or -1.
func parseContentRangeTotal(header string) int {
	_, total, ok := strings.Cut(header, "/")
	if !ok || total == "*" {
		return -1
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return -1
	}
	return n
}

// normalizeSession fills ExpiresAt from ExpiresIn when the backend omits it.
func (h *httpBackendAdapter) normalizeSession(s models.Session) (models.Session, error) {
	if s.AccessToken == "" {
		return models.Session{}, fmt.Errorf("%w: session without access token", ErrDecodeResponse)
	}
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = h.now().Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}
	return s, nil
}

// authedRequest authorises the request with accessToken, or with the public
// key when no user token is given.
func (h *httpBackendAdapter) authedRequest(ctx context.Context, accessToken string) *resty.Request {
	requestID, ok := utils.GetRequestIDFromContext(ctx)
	if !ok {
		requestID = h.ids.Generate()
	}

	token := accessToken
	if token == "" {
		token = h.anonKey
	}

	return h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(utils.HeaderRequestID, requestID).
		SetHeader(utils.HeaderAuthorization, "Bearer "+token)
}
