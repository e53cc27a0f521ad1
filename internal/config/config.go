// Package config provides configuration management for mcpsync using Viper.
package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// Defaults applied when no config file is present.
const (
	// DefaultDebounceDelay is the file-watch debounce window.
	DefaultDebounceDelay = 2 * time.Second

	// DefaultBackupRetention is the number of backups kept per application.
	DefaultBackupRetention = 5
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// DebounceDelay is how long the watch daemon waits after the last file
	// change before synchronizing.
	DebounceDelay time.Duration `mapstructure:"debounce_delay" yaml:"debounce_delay"`

	// WatchApps limits which applications the daemon watches.
	// Empty means all installed applications.
	WatchApps []string `mapstructure:"watch_apps" yaml:"watch_apps"`

	// Apps contains per-application overrides.
	Apps map[string]AppOverride `mapstructure:"apps" yaml:"apps"`

	// Backup configures pre-write target backups.
	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`
}

// AppOverride contains configuration overrides for a specific application.
type AppOverride struct {
	// ConfigPath replaces the built-in config file location for the app.
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`
}

// BackupConfig configures the pre-write backup behavior.
type BackupConfig struct {
	// Enabled controls whether existing target files are backed up before
	// being overwritten.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// RetentionCount is the number of backups to retain per application.
	RetentionCount int `mapstructure:"retention_count" yaml:"retention_count"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.OwnConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("MCPSYNC")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("debounce_delay", DefaultDebounceDelay)
	viper.SetDefault("backup.enabled", true)
	viper.SetDefault("backup.retention_count", DefaultBackupRetention)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration, or default values if no file is found
// (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// A missing implicit config file is fine; use defaults.
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.DebounceDelay < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "debounce_delay must not be negative")
	}
	if c.Backup.RetentionCount < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "backup.retention_count must not be negative")
	}
	for app := range c.Apps {
		if !paths.ValidApp(app) {
			return errors.Wrapf(errors.ErrInvalidConfig, "unknown app %q in apps overrides", app)
		}
	}
	return nil
}

// PathOverrides returns the per-app config path overrides as a flat map.
func (c *Config) PathOverrides() map[string]string {
	if len(c.Apps) == 0 {
		return nil
	}
	overrides := make(map[string]string, len(c.Apps))
	for app, o := range c.Apps {
		if o.ConfigPath != "" {
			overrides[app] = o.ConfigPath
		}
	}
	return overrides
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version:       1,
		DebounceDelay: DefaultDebounceDelay,
		Backup: BackupConfig{
			Enabled:        true,
			RetentionCount: DefaultBackupRetention,
		},
	}
}

// DefaultPath returns the canonical location of mcpsync's config file:
// <ConfigHome>/mcpsync/config.yaml
func DefaultPath() string {
	return filepath.Join(paths.OwnConfigDir(), "config.yaml")
}

// WriteDefault writes the default configuration to path as YAML, creating
// parent directories as needed. Fails if the file already exists.
func WriteDefault(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if _, err := fileutil.ReadFileWithLimit(path); err == nil {
		return errors.Newf("config file already exists at %s", path)
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	return fileutil.AtomicWriteYAML(path, Default())
}
