package auth

import (
	"context"
	"errors"
	"strings"
)

// Application roles carried in token claims.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User is the authenticated caller.
type User struct {
	UID           string
	Email         string
	EmailVerified bool
	Role          string
}

// NormalizeRole lower-cases a role claim and folds spelling variants.
// Unknown or empty roles become RoleUser so they never grant moderation rights.
func NormalizeRole(raw string) string {
	r := strings.ToLower(strings.TrimSpace(raw))
	r = strings.NewReplacer("_", "", "-", "", " ", "").Replace(r)
	switch r {
	case RoleAdmin, RoleSuperAdmin:
		return r
	default:
		return RoleUser
	}
}

// Error types for authentication failures.
var (
	// ErrNoToken indicates missing Authorization header.
	ErrNoToken = errors.New("missing authorization header")

	// ErrInvalidToken indicates an invalid token format or signature.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates the token has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked indicates the token has been revoked.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUserDisabled indicates the user account is disabled.
	ErrUserDisabled = errors.New("user disabled")

	// ErrCertificateFetch indicates a network error fetching public keys (HTTP 503).
	ErrCertificateFetch = errors.New("failed to fetch certificates")
)

// Verifier validates tokens and returns user information.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// ExtractBearerToken extracts the token from an Authorization header.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
