package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
	StoragePostgres  = "postgres"
)

// Auth modes.
const (
	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port string `env:"PORT" env-default:"8080"`
	Env  string `env:"APP_ENV" env-default:"local"`

	StorageBackend string `env:"STORAGE_BACKEND" env-default:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`
	AutoMigrate    bool   `env:"DB_AUTO_MIGRATE" env-default:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile   string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	AuthMode  string `env:"AUTH_MODE" env-default:"firebase"`
	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:","`

	SearchDefaultLimit int           `env:"SEARCH_DEFAULT_LIMIT" env-default:"6"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory, StorageFirestore:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.AuthMode {
	case AuthFirebase:
	case AuthJWT:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	if c.SearchDefaultLimit < 1 {
		return errors.New("SEARCH_DEFAULT_LIMIT must be positive")
	}
	return nil
}

// NeedsFirebase reports whether the Firebase app must be initialized.
func (c *Config) NeedsFirebase() bool {
	return c.AuthMode == AuthFirebase || c.StorageBackend == StorageFirestore
}
