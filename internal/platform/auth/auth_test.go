package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExtractBearerTokenValid(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"lowercase bearer", "bearer token123", "token123"},
		{"uppercase Bearer", "Bearer token123", "token123"},
		{"mixed case BEARER", "BEARER token123", "token123"},
		{"jwt-like token", "Bearer aaa.bbb.ccc", "aaa.bbb.ccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBearerTokenEmpty(t *testing.T) {
	_, err := ExtractBearerToken("")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestExtractBearerTokenInvalid(t *testing.T) {
	for _, header := range []string{"token123", "Basic token123", "Bearer", "   ", "Bearer a b"} {
		t.Run(header, func(t *testing.T) {
			_, err := ExtractBearerToken(header)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestJWTVerifierRoundTrip(t *testing.T) {
	v := NewJWTVerifier("secret", "biodata")
	token, err := v.Sign(&User{UID: "u-1", Email: "a@example.com", Role: "admin"}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	user, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.UID != "u-1" || user.Role != "admin" || user.Email != "a@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestJWTVerifierRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTVerifier("one", "").Sign(&User{UID: "u-1"}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewJWTVerifier("two", "").Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTVerifierRejectsExpired(t *testing.T) {
	v := NewJWTVerifier("secret", "")
	token, err := v.Sign(&User{UID: "u-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTVerifierRejectsWrongIssuer(t *testing.T) {
	token, err := NewJWTVerifier("secret", "other").Sign(&User{UID: "u-1"}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewJWTVerifier("secret", "biodata").Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestMockVerifierTokens(t *testing.T) {
	admin := &User{UID: "admin-1", Role: "admin"}
	m := &MockVerifier{Tokens: map[string]*User{"admin-token": admin}}

	got, err := m.Verify(context.Background(), "admin-token")
	if err != nil || got != admin {
		t.Fatalf("expected admin user, got %v %v", got, err)
	}
	if _, err := m.Verify(context.Background(), "unknown"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := map[string]string{
		"":            RoleUser,
		"user":        RoleUser,
		"Admin":       RoleAdmin,
		" superadmin": RoleSuperAdmin,
		"super_admin": RoleSuperAdmin,
		"Super-Admin": RoleSuperAdmin,
		"owner":       RoleUser,
	}
	for raw, want := range tests {
		if got := NormalizeRole(raw); got != want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestUserFromFirebaseClaims(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]any
		role   string
	}{
		{"no role claim", map[string]any{"email": "a@example.com"}, RoleUser},
		{"role claim", map[string]any{"role": "SuperAdmin"}, RoleSuperAdmin},
		{"legacy admin flag", map[string]any{"admin": true}, RoleAdmin},
		{"role claim wins over flag", map[string]any{"role": "user", "admin": true}, RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := userFromFirebaseClaims("uid-1", tt.claims)
			if user.UID != "uid-1" {
				t.Fatalf("unexpected uid %q", user.UID)
			}
			if user.Role != tt.role {
				t.Fatalf("expected role %q, got %q", tt.role, user.Role)
			}
		})
	}
}

func TestJWTVerifierNormalizesRole(t *testing.T) {
	v := NewJWTVerifier("secret-0123456789", "")
	token, err := v.Sign(&User{UID: "u-2", Role: "Super_Admin"}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	user, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.Role != RoleSuperAdmin {
		t.Fatalf("expected superadmin, got %q", user.Role)
	}
}
