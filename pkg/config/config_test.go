package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ProductionRequiresSigningKey(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SIGNING_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestLoad_ProductionWithSigningKey(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SIGNING_KEY", "prod-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, "prod-key", cfg.JWT.SigningKey)
}

func TestLoad_DevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SIGNING_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Server.IsProduction())
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, "8080", cfg.Server.Port)
}
