package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session backends understood by Load.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds the core runtime configuration for the service.
// Values are sourced from environment variables (optionally via a .env
// file loaded by main), with defaults suitable for local development.
type Config struct {
	ListenAddr string

	// DatabaseURL selects the driver by scheme: postgres://, mysql:// or
	// sqlite://. SQLite is the default so the server runs without setup.
	DatabaseURL    string
	DBMaxOpenConns int

	// AdminUser and AdminPassword seed an admin account on startup when
	// both are set. The password is stored as given.
	AdminUser     string
	AdminPassword string

	SessionBackend string
	RedisURL       string
	// SessionTTL bounds how long a login stays valid. Zero disables expiry.
	SessionTTL    time.Duration
	SessionCookie string

	// StaticDir serves the console from disk instead of the embedded copy.
	StaticDir string

	Debug bool
}

// Load reads configuration from environment variables and applies
// defaults. Use Validate to check the result.
func Load() *Config {
	cfg := &Config{
		ListenAddr:     getenv("APP_LISTEN_ADDR", ":3000"),
		DatabaseURL:    getenv("APP_DATABASE_URL", "sqlite://vortex_games.db"),
		DBMaxOpenConns: 10,
		AdminUser:      os.Getenv("APP_ADMIN_USER"),
		AdminPassword:  os.Getenv("APP_ADMIN_PASSWORD"),
		SessionBackend: strings.ToLower(getenv("APP_SESSION_BACKEND", SessionBackendMemory)),
		RedisURL:       os.Getenv("APP_REDIS_URL"),
		SessionTTL:     24 * time.Hour,
		SessionCookie:  getenv("APP_SESSION_COOKIE", "vortex.sid"),
		StaticDir:      os.Getenv("APP_STATIC_DIR"),
	}

	if v := os.Getenv("APP_DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DBMaxOpenConns = n
		}
	}

	if v := os.Getenv("APP_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.SessionTTL = d
		}
	}

	if v := os.Getenv("APP_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	return cfg
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("APP_LISTEN_ADDR must not be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("APP_DATABASE_URL must not be empty")
	}
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("APP_REDIS_URL is required when APP_SESSION_BACKEND is redis")
		}
	default:
		return fmt.Errorf("APP_SESSION_BACKEND must be memory or redis, got %q", c.SessionBackend)
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("APP_SESSION_COOKIE must not be empty")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
