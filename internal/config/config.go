// Package config provides configuration management for mdsync using Viper,
// with optional repo-local overrides from a .mdsync.toml file.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/thoreinstein/mdsync/internal/errors"
)

// AppName is the application name used for config file naming.
const AppName = "mdsync"

// Config represents the top-level configuration structure.
type Config struct {
	// ContentDir is the content directory name under the repository root.
	ContentDir string `mapstructure:"content_dir" toml:"content_dir"`

	// Media holds media-reference validation settings.
	Media MediaConfig `mapstructure:"media" toml:"media"`

	// Sync holds sync gating settings.
	Sync SyncConfig `mapstructure:"sync" toml:"sync"`

	// Log holds logging preferences.
	Log LogConfig `mapstructure:"log" toml:"log"`
}

// MediaConfig configures the media-references rule-set.
type MediaConfig struct {
	// Markers are URL substrings identifying the backend's media endpoint.
	// A URL containing a marker resolves to the item's directory by basename.
	Markers []string `mapstructure:"markers" toml:"markers"`
}

// SyncConfig configures the sync command.
type SyncConfig struct {
	// Command is the external command executed after the validation gate
	// approves a sync. Run with the repository root as working directory.
	Command string `mapstructure:"command" toml:"command"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	// Format is the default log format: text or json.
	Format string `mapstructure:"format" toml:"format"`
}

// Init initializes Viper with defaults and search paths.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	// Environment variable support
	viper.SetEnvPrefix("MDSYNC")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("content_dir", "content")
	viper.SetDefault("media.markers", []string{"/api/media/"})
	viper.SetDefault("sync.command", "")
	viper.SetDefault("log.format", "text")
}

// Load reads the global configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// ApplyLocal merges a repo-local .mdsync.toml over the loaded configuration.
// A missing file leaves cfg untouched; a malformed file is an error.
func ApplyLocal(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "reading local config")
	}

	var local Config
	if err := toml.Unmarshal(data, &local); err != nil {
		return errors.Wrapf(errors.ErrInvalidConfig, "parsing %s: %v", path, err)
	}

	if local.ContentDir != "" {
		cfg.ContentDir = local.ContentDir
	}
	if len(local.Media.Markers) > 0 {
		cfg.Media.Markers = local.Media.Markers
	}
	if local.Sync.Command != "" {
		cfg.Sync.Command = local.Sync.Command
	}
	if local.Log.Format != "" {
		cfg.Log.Format = local.Log.Format
	}
	return nil
}
