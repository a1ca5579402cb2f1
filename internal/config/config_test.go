package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/chatline")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	require := require.New(t)
	setRequired(t)

	cfg, err := Load()
	require.NoError(err)
	require.Equal("0.0.0.0:8080", cfg.Addr())
	require.Equal(24*time.Hour, cfg.AuthTokenDuration)
	require.Equal(time.Minute, cfg.ProfileCacheTTL)
	require.Equal(5*time.Second, cfg.SendTimeout)
	require.Equal(3*time.Second, cfg.RequestTimeout)
	require.Equal(slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadOverrides(t *testing.T) {
	require := require.New(t)
	setRequired(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PROFILE_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(err)
	require.Equal("127.0.0.1:9090", cfg.Addr())
	require.Equal(30*time.Second, cfg.ProfileCacheTTL)
	require.Equal(slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"DB_URL", "REDIS_URL", "JWT_SECRET"} {
		t.Setenv(key, "") // register restore
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := Load()
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	require := require.New(t)
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := Config{LogLevel: in}
		require.Equal(want, cfg.SlogLevel(), in)
	}
}
