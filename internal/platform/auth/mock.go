package auth

import (
	"context"
)

// MockVerifier provides fake token verification for tests.
type MockVerifier struct {
	User  *User
	Error error
	// Tokens maps specific tokens to users; consulted before User.
	Tokens map[string]*User
}

// Verify returns the configured user or error.
func (m *MockVerifier) Verify(_ context.Context, token string) (*User, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	if u, ok := m.Tokens[token]; ok {
		return u, nil
	}
	if m.User == nil {
		return nil, ErrInvalidToken
	}
	return m.User, nil
}

// TestUser returns a standard test user.
func TestUser() *User {
	return &User{
		UID:           "test-user-123",
		Email:         "test@example.com",
		EmailVerified: true,
		Role:          "user",
	}
}

var _ Verifier = (*MockVerifier)(nil)
