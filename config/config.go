// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Pricing PricingConfig `yaml:"pricing"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `yaml:"port"`
	// MasterKey, when set, is required as a Bearer token on API routes.
	MasterKey string `yaml:"master_key"`
	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// PricingConfig holds catalog source and resolution configuration.
type PricingConfig struct {
	// URL of the remote pricing catalog.
	URL string `yaml:"url"`
	// Offline skips the network and loads only from local sources.
	Offline bool `yaml:"offline"`
	// SnapshotPaths are extra local snapshot files probed before the
	// default locations.
	SnapshotPaths []string `yaml:"snapshot_paths"`
	// ProviderPrefixes override the default prefixes tried during model
	// resolution. Empty means defaults.
	ProviderPrefixes []string `yaml:"provider_prefixes"`
	// TierThreshold overrides the token count where tiered rates apply.
	// Zero means the default.
	TierThreshold int64 `yaml:"tier_threshold"`
}

// CacheConfig holds snapshot persistence configuration.
type CacheConfig struct {
	// File is the local snapshot cache path. Empty disables the file cache.
	File string `yaml:"file"`
	// RedisURL, when set, selects the Redis snapshot cache instead of the
	// local file.
	RedisURL string `yaml:"redis_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Format is "json" or "pretty".
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables win over file values. A .env file in the working
// directory is loaded first, if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           "8080",
			MetricsEnabled: true,
		},
		Pricing: PricingConfig{
			URL: defaultPricingURL,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnv()

	if cfg.Pricing.TierThreshold < 0 {
		return nil, fmt.Errorf("tier threshold must be non-negative, got %d", cfg.Pricing.TierThreshold)
	}
	return cfg, nil
}

// defaultPricingURL mirrors pricing.DefaultCatalogURL. Kept as a literal here
// so config does not import the pricing package.
const defaultPricingURL = "https://raw.githubusercontent.com/BerriAI/litellm/main/model_prices_and_context_window.json"

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.MasterKey, "MASTER_KEY")
	setBool(&c.Server.MetricsEnabled, "METRICS_ENABLED")

	setString(&c.Pricing.URL, "PRICING_URL")
	setBool(&c.Pricing.Offline, "OFFLINE")
	setList(&c.Pricing.SnapshotPaths, "SNAPSHOT_PATH")
	setList(&c.Pricing.ProviderPrefixes, "PROVIDER_PREFIXES")
	setInt64(&c.Pricing.TierThreshold, "PRICING_TIER_THRESHOLD")

	setString(&c.Cache.File, "CACHE_FILE")
	setString(&c.Cache.RedisURL, "REDIS_URL")

	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Log.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt64(dst *int64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = parsed
		}
	}
}

// setList parses a comma-separated environment value, trimming whitespace
// around each element and dropping empties.
func setList(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
