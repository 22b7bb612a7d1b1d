// Package config loads application settings from environment variables,
// applying defaults and validating the result. A .env file is honored in
// development via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the auction service.
type Config struct {
	Port     string // HTTP listen port, number only
	GinMode  string // debug|release|test
	LogLevel string // logrus level name

	// DBPath points at the SQLite database file. Empty selects the
	// in-memory store (dev and test mode).
	DBPath string

	CORSAllowedOrigins []string

	// Auto-close sweep settings.
	AutoCloseEnabled  bool
	AutoCloseInterval time.Duration
	AutoCloseWorkers  int
}

// Load reads configuration from the environment, applying defaults.
// A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:               getenv("PORT", "8080"),
		GinMode:            getenv("GIN_MODE", "release"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		DBPath:             getenv("DB_PATH", ""),
		CORSAllowedOrigins: getlist("CORS_ALLOWED_ORIGINS", "*"),
		AutoCloseEnabled:   getbool("AUTOCLOSE_ENABLED", true),
		AutoCloseInterval:  getdur("AUTOCLOSE_INTERVAL", time.Minute),
		AutoCloseWorkers:   getint("AUTOCLOSE_WORKERS", 4),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("config: PORT must be numeric, got %q", cfg.Port)
	}
	if cfg.AutoCloseInterval <= 0 {
		return Config{}, fmt.Errorf("config: AUTOCLOSE_INTERVAL must be positive")
	}
	if cfg.AutoCloseWorkers < 1 {
		return Config{}, fmt.Errorf("config: AUTOCLOSE_WORKERS must be >= 1")
	}

	return cfg, nil
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Addr returns the listen address in ":port" form.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getlist(key, def string) []string {
	raw := getenv(key, def)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
