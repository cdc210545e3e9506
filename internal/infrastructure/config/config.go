// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Snapshot       SnapshotConfig       `mapstructure:"snapshot"`
	Monitoring     MonitoringConfig     `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// DatabaseConfig contains embedded store configuration
type DatabaseConfig struct {
	Path        string `mapstructure:"path"` // empty means in-memory
	LogLevel    string `mapstructure:"log_level"`
	SeedDefault bool   `mapstructure:"seed_default"`
}

// CacheConfig contains cache configuration
type CacheConfig struct {
	Driver       string        `mapstructure:"driver"` // "memory" or "redis"
	MaxEntries   int           `mapstructure:"max_entries"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	RedisHost    string        `mapstructure:"redis_host"`
	RedisPort    int           `mapstructure:"redis_port"`
	RedisDB      int           `mapstructure:"redis_db"`
	RedisTimeout time.Duration `mapstructure:"redis_timeout"`
}

// RecommendationConfig tunes the recommendation engine
type RecommendationConfig struct {
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RecencyWindow     time.Duration `mapstructure:"recency_window"`
	MinHistoryEntries int           `mapstructure:"min_history_entries"`
	SearchThreshold   float64       `mapstructure:"search_threshold"`
}

// SnapshotConfig contains import/export configuration
type SnapshotConfig struct {
	SchemaVersion string `mapstructure:"schema_version"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics bool `mapstructure:"enable_metrics"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/alacena")
	}

	// Enable environment variable override
	v.SetEnvPrefix("ALACENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Alacena")
	v.SetDefault("app.version", "2.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Database defaults (empty path selects the in-memory store)
	v.SetDefault("database.path", "")
	v.SetDefault("database.log_level", "silent")
	v.SetDefault("database.seed_default", true)

	// Cache defaults
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.max_entries", 1000)
	v.SetDefault("cache.default_ttl", "10m")
	v.SetDefault("cache.redis_host", "localhost")
	v.SetDefault("cache.redis_port", 6379)
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.redis_timeout", "3s")

	// Recommendation defaults
	v.SetDefault("recommendation.cache_ttl", "24h")
	v.SetDefault("recommendation.recency_window", "168h") // 7 days
	v.SetDefault("recommendation.min_history_entries", 3)
	v.SetDefault("recommendation.search_threshold", 0.6)

	// Snapshot defaults
	v.SetDefault("snapshot.schema_version", "2.0")

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.driver must be 'memory' or 'redis'")
	}

	if c.Recommendation.CacheTTL <= 0 {
		return fmt.Errorf("recommendation.cache_ttl must be positive")
	}

	if c.Recommendation.SearchThreshold < 0 || c.Recommendation.SearchThreshold > 1 {
		return fmt.Errorf("recommendation.search_threshold must be within [0,1]")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// RedisAddr returns the Redis connection address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Cache.RedisHost, c.Cache.RedisPort)
}
