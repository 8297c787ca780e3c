package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_BACKEND", "AUTH_MODE", "SEARCH_DEFAULT_LIMIT", "SHUTDOWN_TIMEOUT"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, AuthFirebase, cfg.AuthMode)
	assert.Equal(t, 6, cfg.SearchDefaultLimit)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.NeedsFirebase())
}

func TestLoadJWTPostgres(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StoragePostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/biodata")
	t.Setenv("AUTH_MODE", AuthJWT)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SEARCH_DEFAULT_LIMIT", "12")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.SearchDefaultLimit)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.NeedsFirebase())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			StorageBackend:     StorageMemory,
			AuthMode:           AuthFirebase,
			SearchDefaultLimit: 6,
			ShutdownTimeout:    time.Second,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.StorageBackend = "mysql" }},
		{"postgres without url", func(c *Config) { c.StorageBackend = StoragePostgres }},
		{"unknown auth", func(c *Config) { c.AuthMode = "basic" }},
		{"jwt without secret", func(c *Config) { c.AuthMode = AuthJWT }},
		{"zero limit", func(c *Config) { c.SearchDefaultLimit = 0 }},
		{"negative limit", func(c *Config) { c.SearchDefaultLimit = -1 }},
	}

	ok := base()
	require.NoError(t, ok.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
