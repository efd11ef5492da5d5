// Package config handles cypherbuild configuration via environment variables.
//
// All settings are prefixed with CYPHERBUILD_. Configuration is loaded with
// LoadFromEnv() and checked with Validate() before use; command-line flags
// may override individual fields afterwards.
//
// Example Usage:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid config: %v", err)
//	}
//
// Environment Variables:
//   - CYPHERBUILD_DATA_DIR="./data"        statement store location
//   - CYPHERBUILD_PARAM_PREFIX=""          prefix for generated parameter keys
//   - CYPHERBUILD_CACHE_ENABLED=true       compile cache on/off
//   - CYPHERBUILD_CACHE_SIZE=1000          max cached results
//   - CYPHERBUILD_CACHE_TTL=5m             cached result lifetime
//   - CYPHERBUILD_WORKERS=0                concurrent compile workers (0 = NumCPU)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all cypherbuild settings loaded from environment variables.
type Config struct {
	// Store settings for saved statements.
	Store StoreConfig

	// Build settings applied to every compilation.
	Build BuildConfig

	// Cache settings for the compile result cache.
	Cache CacheConfig
}

// StoreConfig holds statement store settings.
type StoreConfig struct {
	// DataDir is the directory holding the statement database.
	DataDir string
}

// BuildConfig holds compilation settings.
type BuildConfig struct {
	// ParamPrefix is prepended to every generated parameter key.
	ParamPrefix string
	// Workers is the number of concurrent compile workers.
	// Zero means one per CPU.
	Workers int
}

// CacheConfig holds compile cache settings.
type CacheConfig struct {
	// Enabled controls whether compiled results are cached.
	Enabled bool
	// Size is the maximum number of cached results.
	Size int
	// TTL is how long a cached result stays valid.
	TTL time.Duration
}

// LoadFromEnv builds a Config from CYPHERBUILD_* environment variables,
// falling back to defaults for anything unset.
func LoadFromEnv() *Config {
	cfg := &Config{}

	cfg.Store.DataDir = getEnv("CYPHERBUILD_DATA_DIR", "./data")

	cfg.Build.ParamPrefix = getEnv("CYPHERBUILD_PARAM_PREFIX", "")
	cfg.Build.Workers = getEnvInt("CYPHERBUILD_WORKERS", 0)

	cfg.Cache.Enabled = getEnvBool("CYPHERBUILD_CACHE_ENABLED", true)
	cfg.Cache.Size = getEnvInt("CYPHERBUILD_CACHE_SIZE", 1000)
	cfg.Cache.TTL = getEnvDuration("CYPHERBUILD_CACHE_TTL", 5*time.Minute)

	return cfg
}

// Validate checks the configuration for values that would fail later.
func (c *Config) Validate() error {
	if c.Store.DataDir == "" {
		return fmt.Errorf("data directory is empty")
	}
	if c.Build.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Build.Workers)
	}
	if c.Cache.Enabled {
		if c.Cache.Size <= 0 {
			return fmt.Errorf("invalid cache size: %d", c.Cache.Size)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache TTL: %s", c.Cache.TTL)
		}
	}
	return nil
}

// String returns a representation of the Config safe for logging.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DataDir: %s, ParamPrefix: %q, Workers: %d, Cache: %v/%d/%s}",
		c.Store.DataDir, c.Build.ParamPrefix, c.Build.Workers,
		c.Cache.Enabled, c.Cache.Size, c.Cache.TTL)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		// bare numbers read as seconds
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
