package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", StorageMemory)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, devJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, 60*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, 10, cfg.JobNumberMaxAttempts)
	assert.Equal(t, "propman", cfg.JWT.Issuer)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageMemory)
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("JOB_NUMBER_MAX_ATTEMPTS", "3")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 3, cfg.JobNumberMaxAttempts)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageMemory)
		t.Setenv("JWT_ACCESS_TTL", "soon")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_ACCESS_TTL")
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "STORAGE_DRIVER")
	})

	t.Run("production without secret", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageMemory)
		t.Setenv("ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
}

func TestValidateRefreshShorterThanAccess(t *testing.T) {
	cfg := &Config{
		StorageDriver:        StorageMemory,
		JobNumberMaxAttempts: 1,
		JWT: JWTConfig{
			Secret:     devJWTSecret,
			AccessTTL:  time.Hour,
			RefreshTTL: time.Minute,
		},
	}
	assert.ErrorContains(t, cfg.Validate(), "JWT_REFRESH_TTL")
}
