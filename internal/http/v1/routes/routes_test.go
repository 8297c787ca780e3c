package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/biodata-discovery/internal/platform/auth"
	applog "github.com/janisto/biodata-discovery/internal/platform/logging"
	appmiddleware "github.com/janisto/biodata-discovery/internal/platform/middleware"
	"github.com/janisto/biodata-discovery/internal/platform/respond"
	biodatasvc "github.com/janisto/biodata-discovery/internal/service/biodata"
	favoritesvc "github.com/janisto/biodata-discovery/internal/service/favorite"
	"github.com/janisto/biodata-discovery/internal/service/location"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	tree, err := location.Default()
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	biodatas := biodatasvc.NewService(biodatasvc.NewMemoryStore())
	favorites := favoritesvc.NewService(favoritesvc.NewMemoryStore(), biodatas)

	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("RoutesTest", "test"))
	Register(api, &auth.MockVerifier{User: auth.TestUser()}, biodatas, favorites, tree)
	return router
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  bool
		want   int
	}{
		{"search", http.MethodGet, "/biodatas", false, http.StatusOK},
		{"locations", http.MethodGet, "/locations", false, http.StatusOK},
		{"divisions", http.MethodGet, "/locations/divisions", false, http.StatusOK},
		{"my biodata requires auth", http.MethodGet, "/biodatas/me", false, http.StatusUnauthorized},
		{"my biodata missing", http.MethodGet, "/biodatas/me", true, http.StatusNotFound},
		{"favorites", http.MethodGet, "/favorites", true, http.StatusOK},
		{"admin list forbidden", http.MethodGet, "/admin/biodatas", true, http.StatusForbidden},
		{"unknown biodata", http.MethodGet, "/biodatas/1", false, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set(chimiddleware.RequestIDHeader, "routes-"+tc.name)
			if tc.token {
				req.Header.Set("Authorization", "Bearer valid-token")
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestSearchServesCBOR(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/biodatas", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("expected application/cbor, got %q", ct)
	}
}

func TestAPIPrefix(t *testing.T) {
	cfg := huma.DefaultConfig("PrefixTest", "test")
	cfg.Servers = []*huma.Server{{URL: "https://api.example.com/v1"}}
	api := humachi.New(chi.NewRouter(), cfg)
	if got := apiPrefix(api); got != "/v1" {
		t.Fatalf("expected /v1, got %q", got)
	}

	bare := humachi.New(chi.NewRouter(), huma.DefaultConfig("PrefixTest", "test"))
	if got := apiPrefix(bare); got != "" {
		t.Fatalf("expected empty prefix, got %q", got)
	}
}
