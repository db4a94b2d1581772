package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "HTTP_PORT", "DB_PATH", "CATALOG_URL", "REQUEST_TIMEOUT",
		"REDIS_ADDR", "CACHE_TTL", "CACHE_PREFIX", "SUBSCRIPTION_GRACE",
		"FILTER_OPTION_LIMIT", "NOTIFICATION_LIMIT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("CATALOG_URL", "http://localhost:9000/products")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SUBSCRIPTION_GRACE", "0s")
	t.Setenv("FILTER_OPTION_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:9000/products", cfg.CatalogURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, time.Duration(0), cfg.SubscriptionGrace)
	assert.Equal(t, DefaultFilterOptionLimit, cfg.FilterOptionLimit, "invalid values fall back")
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	content := "http_port: 4000\ndb_path: /tmp/shop.db\ncache_ttl: 1m\nnotification_limit: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	clearEnv(t)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.HTTPPort, "environment overrides the file")
	assert.Equal(t, "/tmp/shop.db", cfg.DBPath)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 7, cfg.NotificationLimit)
	assert.Equal(t, DefaultCatalogURL, cfg.CatalogURL, "unset keys keep defaults")
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("http_port: [\n"), 0o644))
	t.Setenv("CONFIG_FILE", bad)
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.HTTPPort = 0 }},
		{"db path", func(c *Config) { c.DBPath = "" }},
		{"catalog url", func(c *Config) { c.CatalogURL = "" }},
		{"timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"grace", func(c *Config) { c.SubscriptionGrace = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
