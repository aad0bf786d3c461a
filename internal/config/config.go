package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls the capture pipeline. Loaded from an optional yaml
// file; every field has a working default so a missing or empty file is
// fine.
type Config struct {
	// DBPath locates the SQLite trace store.
	DBPath string `yaml:"db_path"`
	// Collector selects the capture backend: auto, x11, windows, mock.
	Collector string `yaml:"collector"`
	// Samples and IntervalMs shape the default capture: how many
	// hierarchy snapshots per trace and how far apart.
	Samples    int `yaml:"samples"`
	IntervalMs int `yaml:"interval_ms"`
	// Sanitize redacts sensitive window titles before persistence.
	Sanitize       bool     `yaml:"sanitize"`
	SensitiveWords []string `yaml:"sensitive_words"`
	// LogLevel: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DBPath:    filepath.Join(home, ".wm-trace-snapshots", "traces.db"),
		Collector: "auto",
		Samples:   1,
		LogLevel:  "info",
	}
}

// DefaultPath returns the conventional config location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".wm-trace-snapshots", "config.yaml")
}

// Load reads the config at path, layering it over the defaults. A
// missing file yields the defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	switch c.Collector {
	case "", "auto", "x11", "windows", "mock":
	default:
		return fmt.Errorf("unknown collector %q", c.Collector)
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must not be negative")
	}
	if c.IntervalMs < 0 {
		return fmt.Errorf("interval_ms must not be negative")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}
