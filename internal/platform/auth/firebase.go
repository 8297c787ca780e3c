package auth

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseVerifier implements Verifier using the Firebase Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier creates a new verifier with the given auth client.
func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify validates a Firebase ID token and checks for revocation.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*User, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, firebaseError(err)
	}
	return userFromFirebaseClaims(token.UID, token.Claims), nil
}

func firebaseError(err error) error {
	switch {
	case fbauth.IsCertificateFetchFailed(err):
		return ErrCertificateFetch
	case fbauth.IsIDTokenExpired(err):
		return ErrTokenExpired
	case fbauth.IsIDTokenRevoked(err):
		return ErrTokenRevoked
	case fbauth.IsUserDisabled(err):
		return ErrUserDisabled
	default:
		return ErrInvalidToken
	}
}

// userFromFirebaseClaims maps custom claims to a User. Moderators are marked either
// with a "role" claim or, on older accounts, a boolean "admin" claim.
func userFromFirebaseClaims(uid string, claims map[string]any) *User {
	email, _ := claims["email"].(string)
	verified, _ := claims["email_verified"].(bool)
	role, _ := claims["role"].(string)
	if role == "" {
		if admin, _ := claims["admin"].(bool); admin {
			role = RoleAdmin
		}
	}
	return &User{
		UID:           uid,
		Email:         email,
		EmailVerified: verified,
		Role:          NormalizeRole(role),
	}
}

var _ Verifier = (*FirebaseVerifier)(nil)
