package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/smcfanctl/internal/config"
	"codeberg.org/mutker/smcfanctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "smcfanctl.toml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
interval = 10
fan_min = 1200
temp_avg_floor = 50.0
temp_avg_ceiling = 70.0
temp_tc0p_floor = 55.0
temp_tc0p_ceiling = 65.0
temp_tg0p_floor = 56.0
temp_tg0p_ceiling = 66.0
log_level = 2
exclude = [1, 7]
metrics = true
database = "/path/to/metrics.db"
`)
	t.Setenv(config.EnvConfig, configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Interval, "Expected Interval 10")
	assert.Equal(t, 1200, cfg.FanMin, "Expected FanMin 1200")
	assert.InDelta(t, 50.0, cfg.AvgFloor, 0.001)
	assert.InDelta(t, 70.0, cfg.AvgCeiling, 0.001)
	assert.InDelta(t, 55.0, cfg.TC0PFloor, 0.001)
	assert.InDelta(t, 66.0, cfg.TG0PCeiling, 0.001)
	assert.Equal(t, 2, cfg.LogLevel, "Expected LogLevel 2")
	assert.Equal(t, []int{1, 7}, cfg.Exclude, "Expected Exclude [1, 7]")
	assert.True(t, cfg.Metrics, "Expected Metrics true")
	assert.Equal(t, "/path/to/metrics.db", cfg.MetricsDB)
}

func TestLoadDefaults(t *testing.T) {
	// Point at a config file that sets nothing
	configPath := writeConfig(t, "")
	t.Setenv(config.EnvConfig, configPath)

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.Equal(t, config.DefaultFanMin, cfg.FanMin)
	assert.InDelta(t, config.DefaultAvgFloor, cfg.AvgFloor, 0.001)
	assert.InDelta(t, config.DefaultAvgCeiling, cfg.AvgCeiling, 0.001)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Exclude)
	assert.False(t, cfg.Metrics, "Expected Metrics disabled by default")
}

func TestLoadInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv(config.EnvConfig, configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrReadConfig, errors.CodeOf(err))
}

func TestLoadRejectsZeroWidthBand(t *testing.T) {
	configPath := writeConfig(t, `
temp_avg_floor = 55.0
temp_avg_ceiling = 55.0
`)
	t.Setenv(config.EnvConfig, configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Equal(t, config.ErrInvalidBand, errors.CodeOf(err))
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Interval:    5,
			FanMin:      2000,
			AvgFloor:    45,
			AvgCeiling:  55,
			TC0PFloor:   50,
			TC0PCeiling: 58,
			TG0PFloor:   50,
			TG0PCeiling: 58,
			LogLevel:    1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr errors.ErrorCode
	}{
		{
			name:   "valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "zero interval",
			mutate:  func(c *config.Config) { c.Interval = 0 },
			wantErr: errors.ErrInvalidInterval,
		},
		{
			name:    "negative fan_min",
			mutate:  func(c *config.Config) { c.FanMin = -1 },
			wantErr: config.ErrInvalidFanMin,
		},
		{
			name:    "fan_min above hardware maximum",
			mutate:  func(c *config.Config) { c.FanMin = config.FanMax + 1 },
			wantErr: config.ErrInvalidFanMin,
		},
		{
			name:    "log level out of range",
			mutate:  func(c *config.Config) { c.LogLevel = 3 },
			wantErr: errors.ErrInvalidLogLevel,
		},
		{
			name:    "inverted band",
			mutate:  func(c *config.Config) { c.TC0PFloor = 60; c.TC0PCeiling = 50 },
			wantErr: config.ErrInvalidBand,
		},
		{
			name:    "zero-width band",
			mutate:  func(c *config.Config) { c.TG0PFloor = 58 },
			wantErr: config.ErrInvalidBand,
		},
		{
			name:    "non-positive excluded id",
			mutate:  func(c *config.Config) { c.Exclude = []int{0} },
			wantErr: config.ErrInvalidExclude,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, errors.CodeOf(err))
		})
	}
}
