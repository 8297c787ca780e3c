package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/biodata-discovery/internal/platform/auth"
	applog "github.com/janisto/biodata-discovery/internal/platform/logging"
	appmiddleware "github.com/janisto/biodata-discovery/internal/platform/middleware"
	"github.com/janisto/biodata-discovery/internal/platform/respond"
	biodatasvc "github.com/janisto/biodata-discovery/internal/service/biodata"
)

func newTestRouter(svc Service) chi.Router {
	verifier := &auth.MockVerifier{Tokens: map[string]*auth.User{
		"user-token":       {UID: "user-1", Role: "user"},
		"admin-token":      {UID: "admin-1", Role: "admin"},
		"superadmin-token": {UID: "root-1", Role: "superadmin"},
	}}
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("AdminTest", "test"))
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))
	Register(api, svc, "/v1")
	return router
}

func seed(t *testing.T, svc *biodatasvc.Service, ownerID string) *biodatasvc.Biodata {
	t.Helper()
	b, _, err := svc.Save(context.Background(), ownerID, biodatasvc.SaveParams{
		Gender:        "male",
		MaritalStatus: "never_married",
		FullName:      "Owner " + ownerID,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return b
}

func serve(router chi.Router, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListBiodatasRequiresAdmin(t *testing.T) {
	svc := biodatasvc.NewService(biodatasvc.NewMemoryStore())
	router := newTestRouter(svc)

	if rec := serve(router, http.MethodGet, "/admin/biodatas", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/admin/biodatas", "user-token", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for plain user, got %d", rec.Code)
	}
}

func TestListBiodatasFiltersByApproval(t *testing.T) {
	store := biodatasvc.NewMemoryStore()
	svc := biodatasvc.NewService(store)
	router := newTestRouter(svc)
	pending := seed(t, svc, "a")
	approved := seed(t, svc, "b")
	if _, err := store.SetApprovalStatus(context.Background(), approved.ID, biodatasvc.ApprovalApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	rec := serve(router, http.MethodGet, "/admin/biodatas?approvalStatus=pending", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body ListData
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != pending.ID || body.Data[0].OwnerID != "a" {
		t.Fatalf("expected only the pending biodata, got %+v", body.Data)
	}
	if body.Pagination.Total != 1 {
		t.Fatalf("expected total 1, got %d", body.Pagination.Total)
	}
	if link := rec.Header().Get("Link"); !strings.Contains(link, "approvalStatus=pending") {
		t.Fatalf("expected Link to keep the filter, got %q", link)
	}
}

func TestListBiodatasRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(biodatasvc.NewService(biodatasvc.NewMemoryStore()))

	rec := serve(router, http.MethodGet, "/admin/biodatas?approvalStatus=archived", "admin-token", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestUpdateApproval(t *testing.T) {
	store := biodatasvc.NewMemoryStore()
	svc := biodatasvc.NewService(store)
	router := newTestRouter(svc)
	b := seed(t, svc, "owner")
	path := "/admin/biodatas/" + strconv.FormatInt(b.ID, 10) + "/approval"

	cases := []struct {
		name  string
		token string
		body  string
		want  int
	}{
		{"plain user", "user-token", `{"approvalStatus":"approved"}`, http.StatusForbidden},
		{"invalid value", "admin-token", `{"approvalStatus":"archived"}`, http.StatusUnprocessableEntity},
		{"admin approves", "admin-token", `{"approvalStatus":"Approved"}`, http.StatusOK},
		{"any to any", "admin-token", `{"approvalStatus":"pending"}`, http.StatusOK},
		{"superadmin rejects", "superadmin-token", `{"approvalStatus":"rejected"}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, http.MethodPatch, path, tc.token, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}

	got, err := store.Get(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ApprovalStatus != biodatasvc.ApprovalRejected || got.VisibilityStatus != biodatasvc.VisibilityActive {
		t.Fatalf("expected rejected/active, got %s/%s", got.ApprovalStatus, got.VisibilityStatus)
	}
}

func TestUpdateApprovalUnknownBiodata(t *testing.T) {
	router := newTestRouter(biodatasvc.NewService(biodatasvc.NewMemoryStore()))

	rec := serve(router, http.MethodPatch, "/admin/biodatas/404/approval", "admin-token", `{"approvalStatus":"approved"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteBiodataRequiresSuperadmin(t *testing.T) {
	store := biodatasvc.NewMemoryStore()
	svc := biodatasvc.NewService(store)
	router := newTestRouter(svc)
	b := seed(t, svc, "owner")
	path := "/admin/biodatas/" + strconv.FormatInt(b.ID, 10)

	if rec := serve(router, http.MethodDelete, path, "admin-token", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodDelete, path, "superadmin-token", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for superadmin, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodDelete, path, "superadmin-token", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}
