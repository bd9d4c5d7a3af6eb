package config

import (
	"os"

	"codeberg.org/mutker/smcfanctl/internal/errors"
	"github.com/spf13/viper"
)

// FanMax is the hardware ceiling for the fan minimum-speed control in RPM.
// It is a fixed property of the SMC, not a user setting.
const FanMax = 6200

const (
	DefaultInterval    = 5
	DefaultFanMin      = 2000
	DefaultLogLevel    = 1
	DefaultAvgFloor    = 45
	DefaultAvgCeiling  = 55
	DefaultTC0PFloor   = 50
	DefaultTC0PCeiling = 58
	DefaultTG0PFloor   = 50
	DefaultTG0PCeiling = 58

	defaultConfigName = "smcfanctl"
	defaultConfigDir  = "/etc"

	// EnvConfig points Load at an explicit config file, mainly for tests
	EnvConfig = "SMCFANCTL_CONFIG"
)

// Band is a floor/ceiling temperature pair for one control source
type Band struct {
	Floor   float64
	Ceiling float64
}

type Config struct {
	Interval    int     `mapstructure:"interval"`
	FanMin      int     `mapstructure:"fan_min"`
	AvgFloor    float64 `mapstructure:"temp_avg_floor"`
	AvgCeiling  float64 `mapstructure:"temp_avg_ceiling"`
	TC0PFloor   float64 `mapstructure:"temp_tc0p_floor"`
	TC0PCeiling float64 `mapstructure:"temp_tc0p_ceiling"`
	TG0PFloor   float64 `mapstructure:"temp_tg0p_floor"`
	TG0PCeiling float64 `mapstructure:"temp_tg0p_ceiling"`
	LogLevel    int     `mapstructure:"log_level"`
	Exclude     []int   `mapstructure:"exclude"`
	Metrics     bool    `mapstructure:"metrics"`
	MetricsDB   string  `mapstructure:"database"`
}

// Load reads configuration from the default location, or from the file
// named by the SMCFANCTL_CONFIG environment variable when set.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(EnvConfig))
}

// LoadFrom reads configuration from an explicit file path. An empty path
// falls back to /etc/smcfanctl.toml; a missing default file is not an error.
func LoadFrom(path string) (*Config, error) {
	errFactory := errors.New()
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("toml")
		v.AddConfigPath(defaultConfigDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("fan_min", DefaultFanMin)
	v.SetDefault("temp_avg_floor", DefaultAvgFloor)
	v.SetDefault("temp_avg_ceiling", DefaultAvgCeiling)
	v.SetDefault("temp_tc0p_floor", DefaultTC0PFloor)
	v.SetDefault("temp_tc0p_ceiling", DefaultTC0PCeiling)
	v.SetDefault("temp_tg0p_floor", DefaultTG0PFloor)
	v.SetDefault("temp_tg0p_ceiling", DefaultTG0PCeiling)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("exclude", []int{})
	v.SetDefault("metrics", false)
	v.SetDefault("database", "/var/lib/smcfanctl/metrics.db")
}

// Validate checks every value the control loop assumes to be well-formed.
// A zero-width or inverted temperature band is rejected here so the speed
// calculation never divides by zero.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if c.FanMin < 0 || c.FanMin > FanMax {
		return errFactory.WithData(ErrInvalidFanMin, c.FanMin)
	}

	if c.LogLevel < 0 || c.LogLevel > 2 {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	bands := map[string]Band{
		"temp_avg":  c.AvgBand(),
		"temp_tc0p": c.TC0PBand(),
		"temp_tg0p": c.TG0PBand(),
	}
	for name, band := range bands {
		if band.Floor >= band.Ceiling {
			return errFactory.WithData(ErrInvalidBand, struct {
				Source  string
				Floor   float64
				Ceiling float64
			}{
				Source:  name,
				Floor:   band.Floor,
				Ceiling: band.Ceiling,
			})
		}
	}

	for _, id := range c.Exclude {
		if id < 1 {
			return errFactory.WithData(ErrInvalidExclude, id)
		}
	}

	return nil
}

func (c *Config) AvgBand() Band {
	return Band{Floor: c.AvgFloor, Ceiling: c.AvgCeiling}
}

func (c *Config) TC0PBand() Band {
	return Band{Floor: c.TC0PFloor, Ceiling: c.TC0PCeiling}
}

func (c *Config) TG0PBand() Band {
	return Band{Floor: c.TG0PFloor, Ceiling: c.TG0PCeiling}
}
