package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-thirty-two-chars-min"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 10080, cfg.Auth.RefreshTokenLifetimeMinutes)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_JWT_SECRET", testSecret)
	t.Setenv("TASKHIVE_SERVER_PORT", "9090")
	t.Setenv("TASKHIVE_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TASKHIVE_CACHE_TTL_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 30, cfg.Cache.TTLSeconds)
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_JWT_SECRET", testSecret)
	t.Setenv("TASKHIVE_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
