package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestParseAccessTokenClaims_Success(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signTestToken(t, &AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "6f1c1a2e-6b7e-4a8e-9d55-2b9b1f0c7e11",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email:     "thandi@example.com",
		Role:      "authenticated",
		SessionID: "sess-1",
	})

	claims, err := ParseAccessTokenClaims(token)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if claims.Subject != "6f1c1a2e-6b7e-4a8e-9d55-2b9b1f0c7e11" {
		t.Errorf("unexpected subject %q", claims.Subject)
	}
	if claims.Email != "thandi@example.com" || claims.Role != "authenticated" || claims.SessionID != "sess-1" {
		t.Errorf("unexpected custom claims %+v", claims)
	}
	if !claims.Expiry().Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, claims.Expiry())
	}
}

func TestParseAccessTokenClaims_ExpiredTokenStillDecodes(t *testing.T) {
	token := signTestToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	if _, err := ParseAccessTokenClaims(token); err != nil {
		t.Fatalf("expected expired token to decode, got: %v", err)
	}
}

func TestParseAccessTokenClaims_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"empty", ""},
		{"missing subject", signTestToken(t, jwt.RegisteredClaims{Issuer: "auth"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccessTokenClaims(tt.token); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAccessTokenClaims_ExpiryAbsent(t *testing.T) {
	c := &AccessTokenClaims{}
	if !c.Expiry().IsZero() {
		t.Errorf("expected zero expiry, got %v", c.Expiry())
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer token", "token", false},
		{"surrounding spaces", "  Bearer token  ", "token", false},
		{"missing token", "Bearer ", "", true},
		{"wrong scheme", "Basic dXNlcg==", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got err=%v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
