package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
)

// Config holds every runtime knob, loaded from the environment.
// Call Load after godotenv so a local .env file is honored.
type Config struct {
	Host string `env:"HOST,default=0.0.0.0"`
	Port int    `env:"PORT,default=8080"`

	DatabaseURL string `env:"DB_URL,required=true"`
	RedisURL    string `env:"REDIS_URL,required=true"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	LogLevel string `env:"LOG_LEVEL,default=info"`

	// ProfileCacheTTL bounds staleness of cached display names/avatars.
	// The mutual-follow check is never cached.
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL,default=1m"`

	SendTimeout    time.Duration `env:"SEND_TIMEOUT,default=5s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=3s"`
}

func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SlogLevel maps the LOG_LEVEL string onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
