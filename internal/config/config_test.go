package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://test")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres://test", cfg.DBDSN)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "./uploads", cfg.UploadDir)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PROD_ORIGINS", "https://farmconnect.example")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1h")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("UPLOAD_DIR", "/var/lib/farmconnect/uploads")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "https://farmconnect.example", cfg.ProdOrigins)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "/var/lib/farmconnect/uploads", cfg.UploadDir)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_DSN", "postgres://test")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("JWT_ACCESS_TOKEN_TTL", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_ACCESS_TOKEN_TTL", "15m")
	t.Setenv("BCRYPT_COST", "twelve")
	_, err = Load()
	assert.Error(t, err)
}
