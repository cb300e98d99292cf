// Package config loads gallerybuilder configuration from YAML, the environment
// and command line overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "gallerybuilder.yaml"

// Config represents the application configuration.
type Config struct {
	Input      string          `yaml:"input" validate:"required"`
	Output     string          `yaml:"output" validate:"required"`
	Resources  string          `yaml:"resources,omitempty"`
	Site       SiteConfig      `yaml:"site"`
	Thumbnails ThumbnailConfig `yaml:"thumbnails"`
	Build      BuildConfig     `yaml:"build"`
	Logging    LoggingConfig   `yaml:"logging"`
	Metrics    MetricsConfig   `yaml:"metrics"`
	History    HistoryConfig   `yaml:"history"`
	Watch      WatchConfig     `yaml:"watch"`
}

// SiteConfig holds values shown on every page.
type SiteConfig struct {
	Title string `yaml:"title" validate:"required"`
}

// ThumbnailConfig bounds generated thumbnails.
type ThumbnailConfig struct {
	MaxWidth  int `yaml:"max_width" validate:"min=1,max=4096"`
	MaxHeight int `yaml:"max_height" validate:"min=1,max=4096"`
	Quality   int `yaml:"quality" validate:"min=1,max=100"`
}

// BuildConfig controls concurrency and failure handling.
type BuildConfig struct {
	Workers int         `yaml:"workers" validate:"min=0,max=256"` // 0 = runtime.NumCPU()
	Policy  BuildPolicy `yaml:"policy" validate:"oneof=fail_fast best_effort"`
	DryRun  bool        `yaml:"dry_run,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level" validate:"oneof=debug info warn error"`
	Format LogFormat `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig enables Prometheus metrics written to a node_exporter textfile.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// HistoryConfig enables the SQLite build history.
type HistoryConfig struct {
	Database string `yaml:"database,omitempty"`
	Keep     int    `yaml:"keep,omitempty" validate:"min=0"` // builds retained; 0 keeps all
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" validate:"min=0"`
	Interval time.Duration `yaml:"interval,omitempty" validate:"min=0"` // 0 disables periodic rebuilds
}

// Load loads configuration from path. An empty path returns the defaults.
// Environment variables from .env files are loaded first and ${VAR} references
// in the file are expanded.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	if path != "" {
		// #nosec G304 -- configuration path is operator supplied.
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
		}
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Init creates a new configuration file with example content.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Example()
	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// #nosec G306 -- example configuration contains no secrets.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Example returns the configuration written by Init.
func Example() *Config {
	cfg := &Config{
		Input:     "./photos",
		Output:    "./public",
		Resources: "",
		Site:      SiteConfig{Title: "Photo Gallery"},
		Metrics:   MetricsConfig{Textfile: ""},
		History:   HistoryConfig{Database: ".gallerybuilder/history.db", Keep: 100},
	}
	ApplyDefaults(cfg)
	return cfg
}
