package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the conventional name of the configuration file.
const DefaultFileName = "phylo.yaml"

// Config represents a phylo.yaml configuration file.
type Config struct {
	// Cache configures the taxonomy cache.
	Cache *CacheConfig `yaml:"cache,omitempty"`

	// Service configures taxonomy service lookups.
	Service *ServiceConfig `yaml:"service,omitempty"`

	// Jobs configures the background job runner.
	Jobs *JobsConfig `yaml:"jobs,omitempty"`
}

// CacheConfig tunes the taxonomy cache.
type CacheConfig struct {
	// MaxEntries is the per-facet capacity sentinel. Default: 100000.
	MaxEntries int `yaml:"max_entries,omitempty"`

	// Redis enables the shared remote tier when present.
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig describes the shared Redis tier.
type RedisConfig struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string `yaml:"url"`

	// KeyPrefix namespaces the taxonomy keys. Default: "taxonomy".
	KeyPrefix string `yaml:"key_prefix,omitempty"`

	// TTL bounds record lifetime, as a Go duration string (e.g., "24h").
	// Empty means no expiry.
	TTL string `yaml:"ttl,omitempty"`
}

// ServiceConfig tunes taxonomy service lookups.
type ServiceConfig struct {
	// MaxResultsDetail bounds direct lookups. Default: 10.
	MaxResultsDetail int `yaml:"max_results_detail,omitempty"`

	// MaxResultsAncestral bounds lineage disambiguation during ancestral
	// inference. Default: 100.
	MaxResultsAncestral int `yaml:"max_results_ancestral,omitempty"`

	// Retries is the number of attempts per search. Default: 3.
	Retries int `yaml:"retries,omitempty"`

	// RetryBackoff spaces retries, as a Go duration string. Default: 500ms.
	RetryBackoff string `yaml:"retry_backoff,omitempty"`
}

// JobsConfig tunes the background job runner.
type JobsConfig struct {
	// Concurrency is the number of worker goroutines. Default: 4.
	Concurrency int `yaml:"concurrency,omitempty"`

	// ShutdownTimeout bounds graceful shutdown, as a Go duration string.
	// Default: 30s.
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// GetMaxEntries returns the cache capacity sentinel.
func (c *Config) GetMaxEntries() int {
	if c == nil || c.Cache == nil || c.Cache.MaxEntries <= 0 {
		return 100_000
	}
	return c.Cache.MaxEntries
}

// GetRedis returns the Redis tier configuration, nil when disabled.
func (c *Config) GetRedis() *RedisConfig {
	if c == nil || c.Cache == nil {
		return nil
	}
	return c.Cache.Redis
}

// GetTTL parses the Redis TTL. Returns zero (no expiry) if unset or invalid.
func (r *RedisConfig) GetTTL() time.Duration {
	if r == nil || r.TTL == "" {
		return 0
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0
	}
	return d
}

// GetMaxResultsDetail returns the direct-lookup result bound.
func (c *Config) GetMaxResultsDetail() int {
	if c == nil || c.Service == nil || c.Service.MaxResultsDetail <= 0 {
		return 10
	}
	return c.Service.MaxResultsDetail
}

// GetMaxResultsAncestral returns the ancestral-inference result bound.
func (c *Config) GetMaxResultsAncestral() int {
	if c == nil || c.Service == nil || c.Service.MaxResultsAncestral <= 0 {
		return 100
	}
	return c.Service.MaxResultsAncestral
}

// GetRetries returns the per-search attempt count.
func (c *Config) GetRetries() int {
	if c == nil || c.Service == nil || c.Service.Retries <= 0 {
		return 3
	}
	return c.Service.Retries
}

// GetRetryBackoff parses the retry backoff. Returns the default if unset
// or invalid.
func (c *Config) GetRetryBackoff() time.Duration {
	if c == nil || c.Service == nil || c.Service.RetryBackoff == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.Service.RetryBackoff)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// GetConcurrency returns the worker-pool size.
func (c *Config) GetConcurrency() int {
	if c == nil || c.Jobs == nil || c.Jobs.Concurrency <= 0 {
		return 4
	}
	return c.Jobs.Concurrency
}

// GetShutdownTimeout parses the shutdown timeout. Returns the default if
// unset or invalid.
func (c *Config) GetShutdownTimeout() time.Duration {
	if c == nil || c.Jobs == nil || c.Jobs.ShutdownTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.Jobs.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
