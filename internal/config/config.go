// Package config loads and validates the rota daemon configuration via
// viper. Configuration covers file locations, tracker label names and
// logging; the task schedule itself lives in its own file (see the
// schedule package).
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete rota configuration.
type Config struct {
	Schedule ScheduleConfig `mapstructure:"schedule"`
	State    StateConfig    `mapstructure:"state"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ScheduleConfig locates the schedule file.
type ScheduleConfig struct {
	// Path is the schedule YAML file location.
	Path string `mapstructure:"path"`
	// Watch reloads the schedule when the file changes (default: true).
	Watch bool `mapstructure:"watch"`
}

// StateConfig locates the persisted category-state file.
type StateConfig struct {
	// Path is the state JSON file location.
	Path string `mapstructure:"path"`
}

// TrackerConfig controls how tracked issues are labeled and assigned.
type TrackerConfig struct {
	// ManagedLabel marks every issue this daemon owns. Foreign issues
	// are never listed, closed or relabeled.
	ManagedLabel string `mapstructure:"managed_label"`
	// ManagedLabelColor is the hex color used when creating the label.
	ManagedLabelColor string `mapstructure:"managed_label_color"`
	// UnresolvedLabel marks closed issues with unfinished todos that
	// are still waiting to be carried forward.
	UnresolvedLabel string `mapstructure:"unresolved_label"`
	// UnresolvedLabelColor is the hex color used when creating the label.
	UnresolvedLabelColor string `mapstructure:"unresolved_label_color"`
	// CategoryLabelColor is the hex color for per-category labels.
	CategoryLabelColor string `mapstructure:"category_label_color"`
	// Project is the project board title ensured by `rota init`.
	Project string `mapstructure:"project"`
	// Assignee is the issue assignee. Empty means the authenticated user.
	Assignee string `mapstructure:"assignee"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the log level: debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File is the log file path. Empty logs to stderr.
	File string `mapstructure:"file"`
	// MaxSizeMB is the log size in megabytes before rotation (0 disables).
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep.
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Path:  filepath.Join(ConfigDir(), "schedule.yaml"),
			Watch: true,
		},
		State: StateConfig{
			Path: filepath.Join(DataDir(), "state.json"),
		},
		Tracker: TrackerConfig{
			ManagedLabel:         "rota",
			ManagedLabelColor:    "5319e7",
			UnresolvedLabel:      "unresolved",
			UnresolvedLabelColor: "d93f0b",
			CategoryLabelColor:   "0e8a16",
			Project:              "Rota",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers the default values with viper so they apply
// even without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("schedule.path", defaults.Schedule.Path)
	viper.SetDefault("schedule.watch", defaults.Schedule.Watch)

	viper.SetDefault("state.path", defaults.State.Path)

	viper.SetDefault("tracker.managed_label", defaults.Tracker.ManagedLabel)
	viper.SetDefault("tracker.managed_label_color", defaults.Tracker.ManagedLabelColor)
	viper.SetDefault("tracker.unresolved_label", defaults.Tracker.UnresolvedLabel)
	viper.SetDefault("tracker.unresolved_label_color", defaults.Tracker.UnresolvedLabelColor)
	viper.SetDefault("tracker.category_label_color", defaults.Tracker.CategoryLabelColor)
	viper.SetDefault("tracker.project", defaults.Tracker.Project)
	viper.SetDefault("tracker.assignee", defaults.Tracker.Assignee)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load unmarshals and validates the current viper configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rota")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rota"
	}
	return filepath.Join(home, ".config", "rota")
}

// DataDir returns the path to the user's data directory, where state
// and logs live.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "rota")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rota"
	}
	return filepath.Join(home, ".local", "share", "rota")
}
