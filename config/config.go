// Package config loads the storefront settings from an optional YAML file and
// the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultHTTPPort          = 3000
	DefaultDBPath            = "./storefront.db"
	DefaultCatalogURL        = "https://5fc9346b2af77700165ae514.mockapi.io/products"
	DefaultRequestTimeout    = 15 * time.Second
	DefaultCacheTTL          = 5 * time.Minute
	DefaultCachePrefix       = "storefront:"
	DefaultSubscriptionGrace = 5 * time.Second
	DefaultFilterOptionLimit = 0
	DefaultNotificationLimit = 100
	DefaultShutdownTimeout   = 30 * time.Second
)

// Config holds every runtime setting. An empty RedisAddr disables the
// response cache.
type Config struct {
	HTTPPort          int           `yaml:"http_port"`
	DBPath            string        `yaml:"db_path"`
	CatalogURL        string        `yaml:"catalog_url"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RedisAddr         string        `yaml:"redis_addr"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	CachePrefix       string        `yaml:"cache_prefix"`
	SubscriptionGrace time.Duration `yaml:"subscription_grace"`
	FilterOptionLimit int           `yaml:"filter_option_limit"`
	NotificationLimit int           `yaml:"notification_limit"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		HTTPPort:          DefaultHTTPPort,
		DBPath:            DefaultDBPath,
		CatalogURL:        DefaultCatalogURL,
		RequestTimeout:    DefaultRequestTimeout,
		CacheTTL:          DefaultCacheTTL,
		CachePrefix:       DefaultCachePrefix,
		SubscriptionGrace: DefaultSubscriptionGrace,
		FilterOptionLimit: DefaultFilterOptionLimit,
		NotificationLimit: DefaultNotificationLimit,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// Load builds the configuration. Defaults come first, then the YAML file named
// by CONFIG_FILE if set, then individual environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.CatalogURL = getEnv("CATALOG_URL", cfg.CatalogURL)
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.CachePrefix = getEnv("CACHE_PREFIX", cfg.CachePrefix)
	cfg.SubscriptionGrace = getEnvDuration("SUBSCRIPTION_GRACE", cfg.SubscriptionGrace)
	cfg.FilterOptionLimit = getEnvInt("FILTER_OPTION_LIMIT", cfg.FilterOptionLimit)
	cfg.NotificationLimit = getEnvInt("NOTIFICATION_LIMIT", cfg.NotificationLimit)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTPPort)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.CatalogURL == "" {
		return fmt.Errorf("catalog url is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SubscriptionGrace < 0 {
		return fmt.Errorf("subscription grace must not be negative, got %s", c.SubscriptionGrace)
	}
	return nil
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
