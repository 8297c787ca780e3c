package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/janisto/biodata-discovery/internal/platform/config"
	"github.com/janisto/biodata-discovery/internal/platform/database"
	applog "github.com/janisto/biodata-discovery/internal/platform/logging"
)

func main() {
	defer func() { _ = applog.Sync() }()
	ctx := context.Background()

	var (
		dsn         string
		down        int
		showVersion bool
	)
	flag.StringVar(&dsn, "dsn", "", "database connection string (defaults to DATABASE_URL)")
	flag.IntVar(&down, "down", 0, "number of migrations to roll back instead of migrating up")
	flag.BoolVar(&showVersion, "version", false, "print the current schema version and exit")
	flag.Parse()

	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			applog.LogError(ctx, "config load failed", err)
			os.Exit(1)
		}
		dsn = cfg.DatabaseURL
	}
	if dsn == "" {
		applog.LogError(ctx, "missing database url", nil)
		os.Exit(2)
	}

	switch {
	case showVersion:
		v, dirty, err := database.Version(dsn)
		if err != nil {
			applog.LogError(ctx, "read schema version failed", err)
			os.Exit(1)
		}
		applog.LogInfo(ctx, "schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	case down > 0:
		if err := database.Rollback(dsn, down); err != nil {
			applog.LogError(ctx, "rollback failed", err)
			os.Exit(1)
		}
		applog.LogInfo(ctx, "migrations rolled back", zap.Int("steps", down))
	default:
		if err := database.Migrate(dsn); err != nil {
			applog.LogError(ctx, "migrate failed", err)
			os.Exit(1)
		}
		applog.LogInfo(ctx, "migrations applied")
	}
}
