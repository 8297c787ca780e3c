package testutil

import (
	"context"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/janisto/biodata-discovery/internal/platform/database"
)

// PostgresDSNEnv names the environment variable holding the test database URL.
const PostgresDSNEnv = "TEST_DATABASE_URL"

// testLockKey serializes packages that share the test database.
const testLockKey = 7_130_001

// NewPostgres opens the test database, applies migrations and truncates all tables.
// It holds a session advisory lock until the test ends, so packages running in
// parallel take turns. The test is skipped when TEST_DATABASE_URL is unset.
func NewPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skip(PostgresDSNEnv + " not set")
	}

	if err := database.Migrate(dsn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}

	ctx := context.Background()
	lock, err := sqlDB.Conn(ctx)
	if err != nil {
		t.Fatalf("failed to reserve lock connection: %v", err)
	}
	if _, err := lock.ExecContext(ctx, "SELECT pg_advisory_lock($1)", testLockKey); err != nil {
		t.Fatalf("failed to take advisory lock: %v", err)
	}
	t.Cleanup(func() {
		_, _ = lock.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", testLockKey)
		_ = lock.Close()
		_ = sqlDB.Close()
	})

	if err := db.Exec("TRUNCATE biodata_views, favorites, biodatas RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
	return db
}
