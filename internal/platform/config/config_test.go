package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults apply when unset", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "sandbox", cfg.Environment)
		assert.Equal(t, 10, cfg.Redis.PoolSize)
		assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("CRMKIT_ADDR", ":9090")
		t.Setenv("CRMKIT_ENV", "Production")
		t.Setenv("CRMKIT_INSTANCE", "uat")
		t.Setenv("REDIS_POOL_SIZE", "32")

		cfg := FromEnv()
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "uat", cfg.InstanceName)
		assert.Equal(t, 32, cfg.Redis.PoolSize)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("malformed numeric values fall back", func(t *testing.T) {
		t.Setenv("REDIS_POOL_SIZE", "not-a-number")
		cfg := FromEnv()
		assert.Equal(t, 10, cfg.Redis.PoolSize)
	})
}
