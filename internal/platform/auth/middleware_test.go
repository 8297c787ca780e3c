package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

type testOutput struct {
	Body struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
}

func setupTestAPI(verifier Verifier, security []map[string][]string) *chi.Mux {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))

	api.UseMiddleware(NewAuthMiddleware(api, verifier))

	huma.Register(api, huma.Operation{
		OperationID: "test-endpoint",
		Method:      http.MethodGet,
		Path:        "/test",
		Security:    security,
	}, func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		user := UserFromContext(ctx)
		out := &testOutput{}
		if user != nil {
			out.Body.UserID = user.UID
			out.Body.Role = user.Role
		}
		return out, nil
	})

	return router
}

func serve(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.UserID, body.Role
}

func TestMiddlewareSkipsUnsecuredEndpoints(t *testing.T) {
	router := setupTestAPI(&MockVerifier{Error: ErrInvalidToken}, nil)

	rec := serve(router, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unsecured endpoint, got %d", rec.Code)
	}
}

func TestMiddlewareRequiresAuthHeader(t *testing.T) {
	router := setupTestAPI(&MockVerifier{User: TestUser()}, RequiredSecurity)

	rec := serve(router, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth header, got %d", rec.Code)
	}
	if wwwAuth := rec.Header().Get("WWW-Authenticate"); wwwAuth != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer, got %q", wwwAuth)
	}
}

func TestMiddlewareRejectsInvalidAuthFormat(t *testing.T) {
	router := setupTestAPI(&MockVerifier{User: TestUser()}, RequiredSecurity)

	rec := serve(router, "Basic dXNlcjpwYXNz")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for Basic auth, got %d", rec.Code)
	}
}

func TestMiddlewareAuthenticatesValidToken(t *testing.T) {
	user := &User{UID: "verified-user-789", Role: "admin"}
	router := setupTestAPI(&MockVerifier{User: user}, RequiredSecurity)

	rec := serve(router, "Bearer valid-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid token, got %d", rec.Code)
	}
	uid, role := decodeUser(t, rec)
	if uid != user.UID || role != "admin" {
		t.Fatalf("expected %s/admin, got %s/%s", user.UID, uid, role)
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	router := setupTestAPI(&MockVerifier{Error: ErrTokenExpired}, RequiredSecurity)

	rec := serve(router, "Bearer expired-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestMiddlewareHandlesCertificateFetchError(t *testing.T) {
	router := setupTestAPI(&MockVerifier{Error: ErrCertificateFetch}, RequiredSecurity)

	rec := serve(router, "Bearer some-token")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("expected Retry-After 30, got %q", got)
	}
}

func TestMiddlewareOptionalAllowsAnonymous(t *testing.T) {
	router := setupTestAPI(&MockVerifier{User: TestUser()}, OptionalSecurity)

	rec := serve(router, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous caller, got %d", rec.Code)
	}
	if uid, _ := decodeUser(t, rec); uid != "" {
		t.Fatalf("expected no user, got %q", uid)
	}
}

func TestMiddlewareOptionalAuthenticatesToken(t *testing.T) {
	router := setupTestAPI(&MockVerifier{User: TestUser()}, OptionalSecurity)

	rec := serve(router, "Bearer valid-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if uid, _ := decodeUser(t, rec); uid != TestUser().UID {
		t.Fatalf("expected %s, got %q", TestUser().UID, uid)
	}
}

func TestMiddlewareOptionalRejectsBadToken(t *testing.T) {
	router := setupTestAPI(&MockVerifier{Error: ErrInvalidToken}, OptionalSecurity)

	rec := serve(router, "Bearer bogus")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token on optional endpoint, got %d", rec.Code)
	}
}

func TestCategorizeAuthError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrTokenExpired, "token_expired"},
		{ErrTokenRevoked, "token_revoked"},
		{ErrUserDisabled, "user_disabled"},
		{ErrCertificateFetch, "certificate_fetch_failed"},
		{ErrInvalidToken, "invalid_token"},
		{context.Canceled, "unknown"},
	}
	for _, tt := range tests {
		if got := categorizeAuthError(tt.err); got != tt.want {
			t.Fatalf("categorizeAuthError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
