// Package config loads application settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/recall/internal/review"
)

// Config holds the tunables read from ~/.recall/config.yaml.
type Config struct {
	DBPath   string        `yaml:"db_path,omitempty"`
	Review   review.Config `yaml:"review"`
	Timezone string        `yaml:"timezone,omitempty"`
}

// DefaultDir returns the directory holding the database and config file.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".recall")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Review: review.Config{
			GraduationThreshold: review.DefaultGraduationThreshold,
			Intervals:           append([]int(nil), review.DefaultIntervals...),
		},
	}
}

// Load reads the config file at path. A missing file yields Default.
// Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// Validate checks the review settings and timezone. Unlike review.Config,
// a zero threshold or an empty interval table here was written explicitly
// and is rejected.
func (c Config) Validate() error {
	if c.Review.GraduationThreshold <= 0 {
		return fmt.Errorf("%w: graduation threshold %d must be positive", review.ErrInvalidConfig, c.Review.GraduationThreshold)
	}
	if len(c.Review.Intervals) == 0 {
		return fmt.Errorf("%w: interval table is empty", review.ErrInvalidConfig)
	}
	if _, err := review.NewScheduler(c.Review); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured timezone, or the local zone when unset.
// Day boundaries for capture dates and reviews are computed in it.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
