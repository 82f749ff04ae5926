package backend

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
	"github.com/MKhiriev/ubuntu-pools/models"
)

// SignInWithPassword exchanges credentials for a session, makes it current
// and emits SIGNED_IN.
func (c *Client) SignInWithPassword(ctx context.Context, creds models.Credentials) (models.Session, error) {
	s, err := c.adapter.SignInWithPassword(ctx, creds)
	if err != nil {
		return models.Session{}, err
	}

	c.saveSession(ctx, s)
	c.emit(models.EventSignedIn, &s)
	return s, nil
}

// SignUp creates an account, passing data as user metadata. When the backend
// answers with a session it becomes current and SIGNED_IN is emitted.
func (c *Client) SignUp(ctx context.Context, creds models.Credentials, data map[string]any) (models.SignUpResult, error) {
	res, err := c.adapter.SignUp(ctx, adapter.SignUpRequest{
		Email:    creds.Email,
		Password: creds.Password,
		Data:     data,
	})
	if err != nil {
		return models.SignUpResult{}, err
	}

	if res.Session != nil {
		c.saveSession(ctx, *res.Session)
		c.emit(models.EventSignedIn, res.Session)
	}
	return res, nil
}

// SignOut revokes the current session and emits SIGNED_OUT. A session the
// backend no longer knows counts as revoked; any other failure leaves the
// session in place.
func (c *Client) SignOut(ctx context.Context) error {
	s, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	if s != nil {
		if err = c.adapter.SignOut(ctx, s.AccessToken); err != nil && !isSessionGone(err) {
			return err
		}
	}

	c.dropSession(ctx)
	c.emit(models.EventSignedOut, nil)
	return nil
}

// ResetPasswordForEmail asks the backend to mail a recovery link that leads
// back to redirectTo.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	return c.adapter.Recover(ctx, email, redirectTo)
}

// RefreshSession trades the current refresh token for a new session and
// emits TOKEN_REFRESHED. A rejected refresh token ends the session.
func (c *Client) RefreshSession(ctx context.Context) (models.Session, error) {
	s, err := c.currentSession(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if s == nil {
		return models.Session{}, ErrNoSession
	}
	return c.refresh(ctx, s.RefreshToken)
}

// refresh rotates the session issued with refreshToken. If another caller
// rotated it meanwhile, the newer session is returned as is.
func (c *Client) refresh(ctx context.Context, refreshToken string) (models.Session, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	cur, err := c.currentSession(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if cur == nil {
		return models.Session{}, ErrNoSession
	}
	if cur.RefreshToken != refreshToken {
		return *cur, nil
	}

	fresh, err := c.adapter.RefreshToken(ctx, cur.RefreshToken)
	if err != nil {
		c.logger.Warn().Err(err).Str("func", "Client.refresh").Msg("token refresh failed")
		if isAuthRejection(err) {
			c.dropSession(ctx)
			c.emit(models.EventSignedOut, nil)
		}
		return models.Session{}, err
	}

	c.saveSession(ctx, fresh)
	c.emit(models.EventTokenRefreshed, &fresh)
	return fresh, nil
}

// GetUser asks the backend for the identity behind the current session.
func (c *Client) GetUser(ctx context.Context) (models.SessionIdentity, error) {
	s, err := c.GetSession(ctx)
	if err != nil {
		return models.SessionIdentity{}, err
	}
	if s == nil {
		return models.SessionIdentity{}, ErrNoSession
	}
	return c.adapter.GetUser(ctx, s.AccessToken)
}

// UpdatePassword sets a new password for the signed-in user, typically after
// a recovery link, and emits USER_UPDATED.
func (c *Client) UpdatePassword(ctx context.Context, password string) (models.SessionIdentity, error) {
	s, err := c.GetSession(ctx)
	if err != nil {
		return models.SessionIdentity{}, err
	}
	if s == nil {
		return models.SessionIdentity{}, ErrNoSession
	}

	identity, err := c.adapter.UpdateUser(ctx, s.AccessToken, adapter.UserAttributes{Password: &password})
	if err != nil {
		return models.SessionIdentity{}, fmt.Errorf("update password: %w", err)
	}

	s.User = identity
	c.saveSession(ctx, *s)
	c.emit(models.EventUserUpdated, s)
	return identity, nil
}
