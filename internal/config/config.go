// Package config loads and validates pidlock settings.
//
// Settings come from three layers, lowest precedence first: built-in
// defaults, an optional YAML config file, and PIDLOCK_* environment
// variables. Command-line flags are applied on top by the CLI layer.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/marbeck/pidlock/internal/errors"
	"github.com/marbeck/pidlock/internal/lock"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. PIDLOCK_MIN_BACKOFF=50ms.
const envPrefix = "PIDLOCK"

// Config holds all pidlock application settings
type Config struct {
	// Lock protocol tunables
	MinBackoff        time.Duration `mapstructure:"min_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
	InProgressTimeout time.Duration `mapstructure:"in_progress_timeout"`

	// Acquisition behavior
	Timeout time.Duration `mapstructure:"timeout"` // zero waits indefinitely
	Verify  bool          `mapstructure:"verify"`  // verify ownership at release

	// User experience
	Verbose bool `mapstructure:"verbose"`

	// Debugging
	Debug   bool   `mapstructure:"debug"`
	LogFile string `mapstructure:"log_file"`

	// Build metadata
	VersionInfo VersionInfo `mapstructure:"-"`
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		MinBackoff:        lock.DefaultMinBackoff,
		MaxBackoff:        lock.DefaultMaxBackoff,
		InProgressTimeout: lock.DefaultInProgressTimeout,
		Timeout:           0,
		Verify:            false,
		Verbose:           false,
		Debug:             false,
		LogFile:           "",

		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// Load layers the optional config file and environment variables on top of
// the current values. When path is empty, a pidlock.yaml in the working
// directory or in ~/.config/pidlock is used if present; a missing file is
// not an error. An explicit path that cannot be read is.
func (c *Config) Load(path string) error {
	v := viper.New()

	v.SetDefault("min_backoff", c.MinBackoff)
	v.SetDefault("max_backoff", c.MaxBackoff)
	v.SetDefault("in_progress_timeout", c.InProgressTimeout)
	v.SetDefault("timeout", c.Timeout)
	v.SetDefault("verify", c.Verify)
	v.SetDefault("verbose", c.Verbose)
	v.SetDefault("debug", c.Debug)
	v.SetDefault("log_file", c.LogFile)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewConfigError("config-file", path,
				errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
		}
	} else {
		v.SetConfigName("pidlock")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pidlock")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return errors.NewConfigError("config-file", nil,
					errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
			}
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return errors.NewConfigError("config", nil,
			errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
	}

	return nil
}

// Finalize validates the configuration and must be called before use
func (c *Config) Finalize() error {
	if c.MinBackoff <= 0 {
		return errors.NewConfigError("min-backoff", c.MinBackoff,
			errors.Wrap(errors.ErrInvalidConfiguration, "must be positive"))
	}

	if c.MaxBackoff < c.MinBackoff {
		return errors.NewConfigError("max-backoff", c.MaxBackoff,
			errors.Wrap(errors.ErrInvalidConfiguration, "must not be below min-backoff"))
	}

	if c.InProgressTimeout <= 0 {
		return errors.NewConfigError("in-progress-timeout", c.InProgressTimeout,
			errors.Wrap(errors.ErrInvalidConfiguration, "must be positive"))
	}

	if c.Timeout < 0 {
		return errors.NewConfigError("timeout", c.Timeout,
			errors.Wrap(errors.ErrInvalidConfiguration, "must not be negative"))
	}

	return nil
}

// LockerOptions translates the tunables into options for lock.New.
func (c *Config) LockerOptions() []lock.Option {
	return []lock.Option{
		lock.WithMinBackoff(c.MinBackoff),
		lock.WithMaxBackoff(c.MaxBackoff),
		lock.WithInProgressTimeout(c.InProgressTimeout),
	}
}
