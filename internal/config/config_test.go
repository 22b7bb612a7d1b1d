package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "LOG_LEVEL", "DB_PATH", "CORS_ALLOWED_ORIGINS",
		"AUTOCLOSE_ENABLED", "AUTOCLOSE_INTERVAL", "AUTOCLOSE_WORKERS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "release", cfg.GinMode)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.DBPath)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.AutoCloseEnabled)
	require.Equal(t, time.Minute, cfg.AutoCloseInterval)
	require.Equal(t, 4, cfg.AutoCloseWorkers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_PATH", "/tmp/auctions.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AUTOCLOSE_ENABLED", "false")
	t.Setenv("AUTOCLOSE_INTERVAL", "30s")
	t.Setenv("AUTOCLOSE_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "/tmp/auctions.db", cfg.DBPath)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.False(t, cfg.AutoCloseEnabled)
	require.Equal(t, 30*time.Second, cfg.AutoCloseInterval)
	require.Equal(t, 8, cfg.AutoCloseWorkers)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "PORT")
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AUTOCLOSE_WORKERS", "0")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "AUTOCLOSE_WORKERS")
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AUTOCLOSE_ENABLED", "banana")
	t.Setenv("AUTOCLOSE_INTERVAL", "soon")
	t.Setenv("AUTOCLOSE_WORKERS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.AutoCloseEnabled)
	require.Equal(t, time.Minute, cfg.AutoCloseInterval)
	require.Equal(t, 4, cfg.AutoCloseWorkers)
}
