package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"POSTGRES_URI", "REDIS_URI", "MAGIC_SECRET_KEY", "ENV", "PORT", "FRONTEND_URL", "FRONTEND_URL_2", "FRONTEND_URL_3", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "postgres://localhost:5432/cub?sslmode=disable", cfg.PostgresURI)
	assert.Empty(t, cfg.RedisURI)
	assert.Empty(t, cfg.MagicSecretKey)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadAllowedOriginsList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://cub.example.com, https://docs.example.com ,")

	cfg := Load()

	assert.Equal(t, []string{"https://cub.example.com", "https://docs.example.com"}, cfg.AllowedOrigins)
}

func TestLoadFrontendURLFallback(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	t.Setenv("FRONTEND_URL_2", "https://beta.example.com")
	t.Setenv("FRONTEND_URL_3", "")

	cfg := Load()

	assert.Equal(t, []string{"https://app.example.com", "https://beta.example.com"}, cfg.AllowedOrigins)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "Production")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "production", cfg.Environment)
}
