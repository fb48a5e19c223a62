package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 100, cfg.ScheduleDays)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_BURST", "9")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.SessionBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 9, cfg.RateLimitBurst)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("ProductionWithoutSecret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "oracle")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "DATABASE_DRIVER")
	})
}
