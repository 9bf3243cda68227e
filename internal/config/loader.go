// Package config provides configuration management for the Gridiron Edge service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "GRIDIRON_EDGE"

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. A missing config file is not an error; defaults and environment
// variables still apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "gridiron-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("provider.base_url", "https://api.balldontlie.io/nfl/v1")
	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("provider.rate_limit", 5.0)
	v.SetDefault("provider.per_page", 100)
	v.SetDefault("provider.max_pages_per_team", 8)
	v.SetDefault("odds.sport", "nfl")
	v.SetDefault("odds.per_page", 100)
	v.SetDefault("model.epochs", 10)
	v.SetDefault("model.learning_rate", 0.015)
	v.SetDefault("model.recency_base", 0.85)
	v.SetDefault("model.sigma_min", 5.0)
	v.SetDefault("model.sigma_max", 12.0)
	v.SetDefault("model.default_hfa", 2.0)
	v.SetDefault("model.default_sigma", 7.0)
	v.SetDefault("model.market_blend_weight", 0.70)
	v.SetDefault("model.cache_ttl_minutes", 360)
	v.SetDefault("lifecycle.freeze_lead_minutes", 60)
	v.SetDefault("lifecycle.refresh_interval_minutes", 5)
	v.SetDefault("lifecycle.live_poll_seconds", 60)
	v.SetDefault("schedule.season", 2025)
	v.SetDefault("schedule.start_date", "2025-09-01")
	v.SetDefault("schedule.end_date", "2025-12-01")
	v.SetDefault("schedule.output_path", "data/nfl-schedule.json")
	v.SetDefault("server.address", ":8090")
	v.SetDefault("server.health_port", "8081")
	v.SetDefault("server.schedule_file", "data/nfl-schedule.json")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.daemon_addr", "127.0.0.1:2000")

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
