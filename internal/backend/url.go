package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/utils"
	"github.com/MKhiriev/ubuntu-pools/models"
)

// Redirect types the auth API puts into the type parameter.
const (
	RedirectTypeSignup   = "signup"
	RedirectTypeRecovery = "recovery"
	RedirectTypeMagic    = "magiclink"
	RedirectTypeInvite   = "invite"
)

// SessionFromURL adopts the session carried by an auth redirect, e.g.
// http://localhost:5173/auth/callback#access_token=...&refresh_token=...&type=signup.
// Tokens are read from the fragment, falling back to the query string. It
// emits SIGNED_IN and, for recovery links, PASSWORD_RECOVERY. The access
// token's claims are decoded, not verified; the backend vouches for it when
// resolving the user. The second
// return value is the redirect type.
func (c *Client) SessionFromURL(ctx context.Context, rawURL string) (models.Session, string, error) {
	if !c.cfg.DetectSessionInURL {
		return models.Session{}, "", ErrURLDetectionDisabled
	}

	params, err := redirectParams(rawURL)
	if err != nil {
		return models.Session{}, "", err
	}

	if desc, code := params.Get("error_description"), firstParam(params, "error_code", "error"); desc != "" || code != "" {
		return models.Session{}, "", &CallbackError{Code: code, Description: desc}
	}

	accessToken := params.Get("access_token")
	if accessToken == "" {
		return models.Session{}, "", ErrNoSessionInURL
	}

	claims, err := utils.ParseAccessTokenClaims(accessToken)
	if err != nil {
		return models.Session{}, "", fmt.Errorf("%w: %w", ErrInvalidRedirectToken, err)
	}

	identity, err := c.adapter.GetUser(ctx, accessToken)
	if err != nil {
		return models.Session{}, "", fmt.Errorf("resolve redirect user: %w", err)
	}
	if identity.ID != claims.Subject {
		return models.Session{}, "", fmt.Errorf("%w: subject does not match user", ErrInvalidRedirectToken)
	}

	s := models.Session{
		AccessToken:  accessToken,
		TokenType:    params.Get("token_type"),
		RefreshToken: params.Get("refresh_token"),
		User:         identity,
	}
	s.ExpiresIn, _ = strconv.ParseInt(params.Get("expires_in"), 10, 64)
	s.ExpiresAt, _ = strconv.ParseInt(params.Get("expires_at"), 10, 64)
	switch {
	case s.ExpiresAt != 0:
	case s.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	case !claims.Expiry().IsZero():
		s.ExpiresAt = claims.Expiry().Unix()
	}

	redirectType := params.Get("type")

	c.saveSession(ctx, s)
	c.emit(models.EventSignedIn, &s)
	if redirectType == RedirectTypeRecovery {
		c.emit(models.EventPasswordRecovery, &s)
	}

	return s, redirectType, nil
}

func redirectParams(rawURL string) (url.Values, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redirect url: %w", err)
	}

	if u.Fragment != "" {
		fragment, err := url.ParseQuery(u.EscapedFragment())
		if err != nil {
			return nil, fmt.Errorf("parse redirect fragment: %w", err)
		}
		if fragment.Has("access_token") || fragment.Has("error") || fragment.Has("error_description") {
			return fragment, nil
		}
	}

	return u.Query(), nil
}

func firstParam(v url.Values, keys ...string) string {
	for _, k := range keys {
		if s := v.Get(k); s != "" {
			return s
		}
	}
	return ""
}
