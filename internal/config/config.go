package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultConnectionString = "host=localhost port=5432 dbname=core_banking_db user=postgres password=postgres sslmode=disable"
const defaultHTTPAddr = ":8080"
const defaultMigrationsDir = "migrations"
const defaultLockTimeout = 5 * time.Second

type Config struct {
	DatabaseDSN   string
	HTTPAddr      string
	MigrationsDir string
	LockTimeout   time.Duration
	AdminEmail    string
	AdminPassword string
}

func Load() (Config, error) {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	addr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if addr == "" {
		addr = defaultHTTPAddr
	}

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = defaultMigrationsDir
	}

	lockTimeout := defaultLockTimeout
	if raw := strings.TrimSpace(os.Getenv("LOCK_TIMEOUT")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse LOCK_TIMEOUT: %w", err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("LOCK_TIMEOUT must be positive, got %q", raw)
		}
		lockTimeout = parsed
	}

	return Config{
		DatabaseDSN:   conn,
		HTTPAddr:      addr,
		MigrationsDir: migrationsDir,
		LockTimeout:   lockTimeout,
		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}, nil
}
