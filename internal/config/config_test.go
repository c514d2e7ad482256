package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "store.db", cfg.DatabaseURL)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "admin@ipodstore.com", cfg.AdminEmail)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Len(t, cfg.AllowedOrigins, 2)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_TTL_HOURS", "24")
	t.Setenv("ALLOWED_ORIGINS", "https://store.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://store.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_ProductionRejectsDefaultSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.JWTSecret)
}

func TestLoad_EmptyAdminPassword(t *testing.T) {
	t.Setenv("DEFAULT_ADMIN_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvInt_Malformed(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.BcryptCost, "malformed integers fall back to the default")
}
