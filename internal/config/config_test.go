package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, StorageDriverLocal, cfg.StorageDriver)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Contains(t, cfg.CORSOrigins, "http://localhost:3000")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MAX_UPLOAD_SIZE", "1024")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, int64(1024), cfg.MaxUploadSize)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SOME_INT", "many")
	t.Setenv("SOME_DURATION", "soon")

	assert.Equal(t, 7, envInt("SOME_INT", 7))
	assert.Equal(t, time.Minute, envDuration("SOME_DURATION", time.Minute))
	assert.Equal(t, "fallback", envString("UNSET_KEY_FOR_TEST", "fallback"))
}
