package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg, _ := LoadWithDefaults(filepath.Join(os.TempDir(), "does-not-exist.yaml"))
	return cfg
}

// TestLoadWithDefaults tests that the defaults alone form a valid config
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gridiron-edge", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 0.015, cfg.Model.LearningRate)
	assert.Equal(t, 10, cfg.Model.Epochs)
	assert.Equal(t, 0.85, cfg.Model.RecencyBase)
	assert.Equal(t, 0.70, cfg.Model.MarketBlendWeight)
	assert.Equal(t, 8, cfg.Provider.MaxPagesPerTeam)

	require.NoError(t, Validate(cfg))
}

// TestLoadFromFile tests YAML loading with env var expansion
func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "secret-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  name: gridiron-edge
  environment: staging
  log_level: debug
provider:
  api_key: ${TEST_PROVIDER_KEY}
  rate_limit: 2.5
model:
  epochs: 20
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "secret-key", cfg.Provider.APIKey)
	assert.Equal(t, 2.5, cfg.Provider.RateLimit)
	assert.Equal(t, 20, cfg.Model.Epochs)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.015, cfg.Model.LearningRate)
}

// TestLoadMissingFileErrors tests that strict Load requires the file
func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestValidateEnvironment tests the environment whitelist
func TestValidateEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "sandbox"
	assert.Error(t, Validate(cfg))

	cfg.App.Environment = "staging"
	assert.NoError(t, Validate(cfg))
}

// TestValidateLogLevel tests the log level whitelist
func TestValidateLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.App.LogLevel = "verbose"
	assert.Error(t, Validate(cfg))
}

// TestValidateSigmaBounds tests the sigma cross-field rules
func TestValidateSigmaBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Model.SigmaMin = 12
	cfg.Model.SigmaMax = 5
	assert.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Model.DefaultSigma = 20
	assert.Error(t, Validate(cfg))
}

// TestValidateScheduleRange tests date ordering and layout rules
func TestValidateScheduleRange(t *testing.T) {
	cfg := validConfig()
	cfg.Schedule.StartDate = "2025-12-01"
	cfg.Schedule.EndDate = "2025-09-01"
	assert.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Schedule.StartDate = "09/01/2025"
	assert.Error(t, Validate(cfg))
}

// TestValidateFreezeLead tests the freeze/refresh cadence rule
func TestValidateFreezeLead(t *testing.T) {
	cfg := validConfig()
	cfg.Lifecycle.FreezeLeadMinutes = 2
	cfg.Lifecycle.RefreshIntervalMinutes = 5
	assert.Error(t, Validate(cfg))
}

// TestValidateProductionRequiresKey tests the production credential rule
func TestValidateProductionRequiresKey(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "production"
	cfg.Provider.APIKey = ""
	assert.Error(t, Validate(cfg))

	cfg.Provider.APIKey = "key"
	assert.NoError(t, Validate(cfg))
}

// TestDurationHelpers tests the typed duration accessors
func TestDurationHelpers(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.TimeoutSeconds = 15
	cfg.Lifecycle.FreezeLeadMinutes = 60
	cfg.Lifecycle.RefreshIntervalMinutes = 5
	cfg.Model.CacheTTLMinutes = 360

	assert.Equal(t, 15*time.Second, cfg.ProviderTimeout())
	assert.Equal(t, time.Hour, cfg.FreezeLead())
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 6*time.Hour, cfg.RatingsCacheTTL())
}

// TestOddsSportDefault tests the sport key fallback
func TestOddsSportDefault(t *testing.T) {
	cfg := validConfig()
	cfg.Odds.Sport = ""
	assert.Equal(t, "nfl", cfg.OddsSport())

	cfg.Odds.Sport = "nfl-preseason"
	assert.Equal(t, "nfl-preseason", cfg.OddsSport())
}
