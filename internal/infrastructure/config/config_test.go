package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Alacena", cfg.App.Name)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Empty(t, cfg.Database.Path)
	assert.True(t, cfg.Database.SeedDefault)
	assert.Equal(t, 24*time.Hour, cfg.Recommendation.CacheTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Recommendation.RecencyWindow)
	assert.Equal(t, 3, cfg.Recommendation.MinHistoryEntries)
	assert.InDelta(t, 0.6, cfg.Recommendation.SearchThreshold, 1e-9)
	assert.Equal(t, "2.0", cfg.Snapshot.SchemaVersion)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  name: Alacena
  environment: production
cache:
  driver: redis
  redis_host: cache.internal
  redis_port: 6380
recommendation:
  cache_ttl: 12h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
	assert.Equal(t, 12*time.Hour, cfg.Recommendation.CacheTTL)
	// Untouched sections keep their defaults.
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
}

func TestValidateRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
cache:
  driver: memcached
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.driver")
}

func TestValidateThresholdRange(t *testing.T) {
	cfg := Config{
		App:   AppConfig{Name: "Alacena"},
		Cache: CacheConfig{Driver: "memory"},
		Recommendation: RecommendationConfig{
			CacheTTL:        time.Hour,
			SearchThreshold: 1.5,
		},
	}
	require.Error(t, cfg.Validate())

	cfg.Recommendation.SearchThreshold = 0.5
	assert.NoError(t, cfg.Validate())
}
