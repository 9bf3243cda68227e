// Package config provides configuration management for the Gridiron Edge service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Provider  ProviderConfig  `mapstructure:"provider" validate:"required"`
	Odds      OddsConfig      `mapstructure:"odds"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle" validate:"required"`
	Schedule  ScheduleConfig  `mapstructure:"schedule" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ProviderConfig represents the sports data provider configuration
type ProviderConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	PerPage        int     `mapstructure:"per_page" validate:"required,gt=0,lte=100"`
	// MaxPagesPerTeam bounds cursor pagination per team as a guard
	// against runaway page chains.
	MaxPagesPerTeam int `mapstructure:"max_pages_per_team" validate:"required,gt=0"`
}

// OddsConfig represents the moneyline odds provider configuration.
// The odds endpoints share the provider credential; when no credential is
// configured, market data is treated as absent rather than an error.
type OddsConfig struct {
	Sport   string `mapstructure:"sport"`
	PerPage int    `mapstructure:"per_page" validate:"omitempty,gt=0,lte=100"`
}

// ModelConfig represents rating model hyperparameters.
// The SGD constants are tunable, not load-bearing; the defaults mirror the
// values the model was originally calibrated with.
type ModelConfig struct {
	Epochs            int     `mapstructure:"epochs" validate:"required,gt=0"`
	LearningRate      float64 `mapstructure:"learning_rate" validate:"required,gt=0,lt=1"`
	RecencyBase       float64 `mapstructure:"recency_base" validate:"required,gt=0,lte=1"`
	SigmaMin          float64 `mapstructure:"sigma_min" validate:"required,gt=0"`
	SigmaMax          float64 `mapstructure:"sigma_max" validate:"required,gt=0"`
	DefaultHFA        float64 `mapstructure:"default_hfa" validate:"required"`
	DefaultSigma      float64 `mapstructure:"default_sigma" validate:"required,gt=0"`
	MarketBlendWeight float64 `mapstructure:"market_blend_weight" validate:"gte=0,lte=1"`
	CacheTTLMinutes   int     `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
}

// LifecycleConfig represents the live/frozen estimate lifecycle configuration
type LifecycleConfig struct {
	FreezeLeadMinutes      int `mapstructure:"freeze_lead_minutes" validate:"required,gt=0"`
	RefreshIntervalMinutes int `mapstructure:"refresh_interval_minutes" validate:"required,gt=0"`
	LivePollSeconds        int `mapstructure:"live_poll_seconds" validate:"required,gt=0"`
}

// ScheduleConfig represents schedule snapshot configuration
type ScheduleConfig struct {
	Season     int    `mapstructure:"season" validate:"required,gt=1999"`
	StartDate  string `mapstructure:"start_date" validate:"required,datelayout"`
	EndDate    string `mapstructure:"end_date" validate:"required,datelayout"`
	OutputPath string `mapstructure:"output_path" validate:"required"`
	// Cron is empty for one-shot runs.
	Cron string `mapstructure:"cron"`
}

// ServerConfig represents the API server configuration
type ServerConfig struct {
	Address      string `mapstructure:"address" validate:"required"`
	HealthPort   string `mapstructure:"health_port"`
	ScheduleFile string `mapstructure:"schedule_file" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DaemonAddr string `mapstructure:"daemon_addr"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ProviderTimeout returns the provider HTTP timeout as a duration
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// FreezeLead returns the lead time before kickoff at which estimates freeze
func (c *Config) FreezeLead() time.Duration {
	return time.Duration(c.Lifecycle.FreezeLeadMinutes) * time.Minute
}

// RefreshInterval returns the live estimate refresh cadence
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Lifecycle.RefreshIntervalMinutes) * time.Minute
}

// RatingsCacheTTL returns how long fitted ratings stay cached per season
func (c *Config) RatingsCacheTTL() time.Duration {
	return time.Duration(c.Model.CacheTTLMinutes) * time.Minute
}

// OddsSport returns the configured sport key for the odds endpoints
func (c *Config) OddsSport() string {
	if c.Odds.Sport == "" {
		return "nfl"
	}
	return c.Odds.Sport
}

// ScheduleRange parses the configured snapshot date range
func (c *Config) ScheduleRange() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.Schedule.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid schedule start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Schedule.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid schedule end_date: %w", err)
	}
	return start, end, nil
}
