package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uliza.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "uliza:session:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 120*time.Second, cfg.Session.TTL.Std())
	assert.Equal(t, 182, cfg.Session.MaxScreenLen)
	assert.Equal(t, 30*time.Second, cfg.Janitor.Interval.Std())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9000"
log_level: debug
redis:
  addr: redis.internal:6379
  db: 3
session:
  ttl: 90s
  max_depth: 10
janitor:
  interval: 1m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 90*time.Second, cfg.Session.TTL.Std())
	assert.Equal(t, 10, cfg.Session.MaxDepth)
	assert.Equal(t, time.Minute, cfg.Janitor.Interval.Std())

	// Untouched settings keep their defaults.
	assert.Equal(t, 2*time.Second, cfg.Session.StoreTimeout.Std())
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9000"
redis:
  addr: file.internal:6379
`)
	t.Setenv("ULIZA_LISTEN_ADDR", ":7000")
	t.Setenv("ULIZA_REDIS_ADDR", "env.internal:6379")
	t.Setenv("ULIZA_REDIS_PASSWORD", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "env.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeConfig(t, "session:\n  ttl: soon\n"))
		assert.ErrorContains(t, err, "invalid duration")
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		_, err := Load(writeConfig(t, "session:\n  ttl: 0s\n"))
		assert.ErrorContains(t, err, "session.ttl")
	})

	t.Run("non-positive interval", func(t *testing.T) {
		_, err := Load(writeConfig(t, "janitor:\n  interval: 0s\n"))
		assert.ErrorContains(t, err, "janitor.interval")
	})
}
