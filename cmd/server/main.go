package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/janisto/biodata-discovery/internal/http/health"
	"github.com/janisto/biodata-discovery/internal/http/v1/routes"
	"github.com/janisto/biodata-discovery/internal/platform/auth"
	"github.com/janisto/biodata-discovery/internal/platform/config"
	"github.com/janisto/biodata-discovery/internal/platform/database"
	"github.com/janisto/biodata-discovery/internal/platform/firebase"
	applog "github.com/janisto/biodata-discovery/internal/platform/logging"
	appmiddleware "github.com/janisto/biodata-discovery/internal/platform/middleware"
	"github.com/janisto/biodata-discovery/internal/platform/respond"
	biodatasvc "github.com/janisto/biodata-discovery/internal/service/biodata"
	favoritesvc "github.com/janisto/biodata-discovery/internal/service/favorite"
	"github.com/janisto/biodata-discovery/internal/service/location"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	apiPrefix = "/v1"
	docsPath  = "/api-docs"
)

// dependencies holds the wired services and the resources to release on exit.
type dependencies struct {
	verifier  auth.Verifier
	origins   []string
	biodatas  *biodatasvc.Service
	favorites *favoritesvc.Service
	tree      *location.Tree
	checks    map[string]health.Check
	closers   []func() error
}

func (d *dependencies) close(ctx context.Context) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			applog.LogError(ctx, "resource close error", err)
		}
	}
}

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		applog.LogError(ctx, "config load failed", err)
		os.Exit(1)
	}

	deps, err := setup(ctx, cfg)
	if err != nil {
		applog.LogError(ctx, "startup failed", err,
			zap.String("storage", cfg.StorageBackend), zap.String("auth", cfg.AuthMode))
		os.Exit(1)
	}
	defer deps.close(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newHandler(deps),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(ctx, "listen failed", err, zap.String("addr", srv.Addr))
		deps.close(ctx)
		os.Exit(1)
	case <-stop:
		applog.LogInfo(ctx, "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(ctx, "server exited")
}

// setup opens the configured backends and wires the services.
func setup(ctx context.Context, cfg *config.Config) (deps *dependencies, err error) {
	deps = &dependencies{checks: make(map[string]health.Check), origins: cfg.CORSAllowedOrigins}
	defer func() {
		if err != nil {
			deps.close(ctx)
		}
	}()

	if deps.tree, err = location.Default(); err != nil {
		return nil, err
	}

	var fb *firebase.Clients
	if cfg.NeedsFirebase() {
		fb, err = firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:                    cfg.FirebaseProjectID,
			GoogleApplicationCredentials: cfg.CredentialsFile,
			EnableAuth:                   cfg.AuthMode == config.AuthFirebase,
			EnableFirestore:              cfg.StorageBackend == config.StorageFirestore,
		})
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, fb.Close)
	}

	var (
		biodataStore  biodatasvc.Store
		favoriteStore favoritesvc.Store
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		if cfg.AutoMigrate {
			if err = database.Migrate(cfg.DatabaseURL); err != nil {
				return nil, err
			}
			applog.LogInfo(ctx, "migrations applied")
		}
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, sqlDB.Close)
		deps.checks["postgres"] = sqlDB.PingContext
		biodataStore = biodatasvc.NewPostgresStore(db)
		favoriteStore = favoritesvc.NewPostgresStore(db)
	case config.StorageFirestore:
		biodataStore = biodatasvc.NewFirestoreStore(fb.Firestore)
		favoriteStore = favoritesvc.NewFirestoreStore(fb.Firestore)
	default:
		applog.LogWarn(ctx, "using in-memory storage; data is lost on restart")
		biodataStore = biodatasvc.NewMemoryStore()
		favoriteStore = favoritesvc.NewMemoryStore()
	}

	opts := []biodatasvc.Option{biodatasvc.WithDefaultLimit(cfg.SearchDefaultLimit)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		deps.closers = append(deps.closers, rdb.Close)
		deps.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		opts = append(opts, biodatasvc.WithWindowGuard(biodatasvc.NewRedisWindowGuard(rdb, "biodata:")))
	}

	deps.biodatas = biodatasvc.NewService(biodataStore, opts...)
	deps.favorites = favoritesvc.NewService(favoriteStore, deps.biodatas)
	deps.biodatas.AddDeleteHook(deps.favorites.RemoveAllForBiodata)

	switch cfg.AuthMode {
	case config.AuthJWT:
		deps.verifier = auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	default:
		deps.verifier = auth.NewFirebaseVerifier(fb.Auth)
	}
	return deps, nil
}

// newHandler builds the router: base middleware, the plain health check and
// the versioned huma API.
func newHandler(deps *dependencies) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(apiPrefix+docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(deps.origins...),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		// Without a trusted proxy, clients can spoof their IP address and bypass view deduplication.
		chimiddleware.RealIP,
		// RequestSize limits request body size to prevent memory exhaustion from large payloads.
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(deps.checks))

	router.Route(apiPrefix, func(r chi.Router) {
		r.NotFound(respond.NotFoundHandler())
		r.MethodNotAllowed(respond.MethodNotAllowedHandler())

		cfg := huma.DefaultConfig("Biodata Discovery API", Version)
		cfg.DocsPath = docsPath
		cfg.Servers = []*huma.Server{{URL: apiPrefix}}
		cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
			"bearerAuth": {
				Type:         "http",
				Scheme:       "bearer",
				BearerFormat: "JWT",
			},
		}
		api := humachi.New(r, cfg)

		// Add CBOR content type to OpenAPI requests and responses
		api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
			func(_ *huma.OpenAPI, op *huma.Operation) {
				if op.RequestBody != nil && op.RequestBody.Content != nil {
					if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
						op.RequestBody.Content["application/cbor"] = jsonContent
					}
				}
				for _, resp := range op.Responses {
					if resp.Content == nil {
						continue
					}
					if jsonContent, ok := resp.Content["application/json"]; ok {
						resp.Content["application/cbor"] = jsonContent
					}
				}
			},
		)

		routes.Register(api, deps.verifier, deps.biodatas, deps.favorites, deps.tree)
	})

	return router
}
