package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLOTIAN_API_URL", "")
	t.Setenv("GLOTIAN_ACCESS_TOKEN", "")
	t.Setenv("GLOTIAN_USER_ID", "")
	t.Setenv("GLOTIAN_CACHE_QUOTA_BYTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.glotian.app", cfg.Remote.BaseURL)
	assert.Equal(t, 5, cfg.Sync.MaxRetries)
	assert.InDelta(t, 0.90, cfg.Eviction.HighWater, 1e-9)
	assert.InDelta(t, 0.20, cfg.Eviction.EvictFraction, 1e-9)
	assert.Equal(t, 1000, cfg.Eviction.ActivityRetention)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLOTIAN_API_URL", "https://staging.glotian.app")
	t.Setenv("GLOTIAN_ACCESS_TOKEN", "tok")
	t.Setenv("GLOTIAN_USER_ID", "u1")
	t.Setenv("GLOTIAN_CACHE_QUOTA_BYTES", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.glotian.app", cfg.Remote.BaseURL)
	assert.Equal(t, "tok", cfg.Remote.AccessToken)
	assert.Equal(t, "u1", cfg.Remote.UserID)
	assert.Equal(t, int64(1048576), cfg.Eviction.QuotaBytes)
}

func TestLoad_BadQuotaIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLOTIAN_CACHE_QUOTA_BYTES", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Eviction.QuotaBytes, cfg.Eviction.QuotaBytes)
}

func TestGetPaths(t *testing.T) {
	cfg := &Config{BaseDir: "/tmp/glotian-test"}
	paths := GetPaths(cfg)

	assert.Equal(t, filepath.Join("/tmp/glotian-test", "glotian.db"), paths.Database)
	assert.Equal(t, filepath.Join("/tmp/glotian-test", "logs"), paths.Logs)
}
