package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8460", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "1s", cfg.WorkerInterval)
	assert.NotEmpty(t, cfg.UploadDir)
	assert.False(t, cfg.TracingEnabled)
}

func TestValidateRequiresPortAndSecret(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: "8080"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: "8080", JWTSecret: "secret"}
	assert.NoError(t, cfg.Validate())
}

func TestValidateProduction(t *testing.T) {
	base := Config{
		Port:       "8080",
		Env:        "production",
		DBPassword: "an-actually-strong-password",
		DBSSLMode:  "require",
	}

	cfg := base
	cfg.JWTSecret = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.JWTSecret = "too-short"
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.JWTSecret = "this-secret-is-definitely-longer-than-32-chars"
	cfg.DBPassword = "password"
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.JWTSecret = "this-secret-is-definitely-longer-than-32-chars"
	assert.NoError(t, cfg.Validate())
}
