package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the global ~/.linktrack/config.toml.
type Config struct {
	DefaultWorkspace       string `toml:"default_workspace"`
	ReminderIntervalDays   int    `toml:"reminder_interval_days"`
	ConnectionReminderDays int    `toml:"connection_reminder_days"`
	FollowUpThresholdDays  int    `toml:"follow_up_threshold_days"`
	PendingWindowDays      int    `toml:"pending_window_days"`
	ExportDir              string `toml:"export_dir"`
	TemplatesFile          string `toml:"templates_file"`
	LogLevel               string `toml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		ReminderIntervalDays:   7,
		ConnectionReminderDays: 3,
		FollowUpThresholdDays:  7,
		PendingWindowDays:      1,
		ExportDir:              "exports",
		LogLevel:               "info",
	}
}

// Load reads config from the given path. Returns nil config and error if file missing.
// Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault reads config from path, falling back to Default when the
// file does not exist. Values from a .env file in the working directory and
// from the environment are applied on top.
func LoadOrDefault(path string) (*Config, error) {
	_ = godotenv.Load() // optional
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("REMINDER_INTERVAL_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REMINDER_INTERVAL_DAYS: %w", err)
		}
		c.ReminderIntervalDays = n
	}
	if v := os.Getenv("LINKTRACK_EXPORT_DIR"); v != "" {
		c.ExportDir = v
	}
	if v := os.Getenv("LINKTRACK_TEMPLATES"); v != "" {
		c.TemplatesFile = v
	}
	if v := os.Getenv("LINKTRACK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c.Validate()
}

// Validate checks that day counts are usable.
func (c *Config) Validate() error {
	if c.ReminderIntervalDays <= 0 {
		return errors.New("reminder_interval_days must be > 0")
	}
	if c.ConnectionReminderDays <= 0 {
		return errors.New("connection_reminder_days must be > 0")
	}
	if c.FollowUpThresholdDays < 0 {
		return errors.New("follow_up_threshold_days must be >= 0")
	}
	if c.PendingWindowDays < 0 {
		return errors.New("pending_window_days must be >= 0")
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
