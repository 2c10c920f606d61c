// Package config loads styletune's own settings: tool location, pool width,
// batch size, and tuning behavior. Not to be confused with the clang-format
// style configuration being tuned (internal/style).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project settings file.
const FileName = ".styletune.yaml"

// Config holds tuner settings.
type Config struct {
	// Binary is the clang-format executable name or path.
	Binary string

	// Workers bounds concurrent formatter invocations.
	Workers int

	// BatchSize is how many files one invocation covers.
	BatchSize int

	// InvokeTimeout bounds a single invocation.
	InvokeTimeout time.Duration

	// LaunchRate throttles process launches per second. Zero disables it.
	LaunchRate float64

	// Exclude names options never tuned, in addition to the baseline's own
	// keys.
	Exclude []string

	// SkipMinimize disables the pruning pass after the search converges.
	SkipMinimize bool

	// HistoryPath enables the SQLite run log when non-empty.
	HistoryPath string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Binary:        "clang-format",
		Workers:       5,
		BatchSize:     10,
		InvokeTimeout: 30 * time.Second,
	}
}

// fileConfig mirrors Config for YAML decoding; durations are strings like
// "30s" and converted after parse.
type fileConfig struct {
	Binary        string   `yaml:"binary"`
	Workers       *int     `yaml:"workers"`
	BatchSize     *int     `yaml:"batch_size"`
	InvokeTimeout string   `yaml:"invoke_timeout"`
	LaunchRate    *float64 `yaml:"launch_rate"`
	Exclude       []string `yaml:"exclude"`
	SkipMinimize  *bool    `yaml:"skip_minimize"`
	HistoryPath   string   `yaml:"history_path"`
}

// Load reads settings from a YAML file, layered over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := Default()
	if fc.Binary != "" {
		cfg.Binary = fc.Binary
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.BatchSize != nil {
		cfg.BatchSize = *fc.BatchSize
	}
	if fc.InvokeTimeout != "" {
		d, err := time.ParseDuration(fc.InvokeTimeout)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid invoke_timeout: %w", path, err)
		}
		cfg.InvokeTimeout = d
	}
	if fc.LaunchRate != nil {
		cfg.LaunchRate = *fc.LaunchRate
	}
	if fc.Exclude != nil {
		cfg.Exclude = fc.Exclude
	}
	if fc.SkipMinimize != nil {
		cfg.SkipMinimize = *fc.SkipMinimize
	}
	if fc.HistoryPath != "" {
		cfg.HistoryPath = fc.HistoryPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads FileName from the current directory when present,
// otherwise returns the defaults.
func LoadDefault() (*Config, error) {
	cfg, err := Load(FileName)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides settings from environment variables:
// STYLETUNE_BINARY, STYLETUNE_WORKERS, STYLETUNE_BATCH_SIZE,
// STYLETUNE_TIMEOUT, STYLETUNE_HISTORY.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("STYLETUNE_BINARY"); v != "" {
		c.Binary = v
	}
	if v := os.Getenv("STYLETUNE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STYLETUNE_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("STYLETUNE_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STYLETUNE_BATCH_SIZE: %w", err)
		}
		c.BatchSize = n
	}
	if v := os.Getenv("STYLETUNE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid STYLETUNE_TIMEOUT: %w", err)
		}
		c.InvokeTimeout = d
	}
	if v := os.Getenv("STYLETUNE_HISTORY"); v != "" {
		c.HistoryPath = v
	}
	return c.Validate()
}

// Validate rejects settings that would stall or misbehave.
func (c *Config) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("binary must not be empty")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive (got %d)", c.Workers)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive (got %d)", c.BatchSize)
	}
	if c.InvokeTimeout <= 0 {
		return fmt.Errorf("invoke_timeout must be positive (got %v)", c.InvokeTimeout)
	}
	if c.LaunchRate < 0 {
		return fmt.Errorf("launch_rate must not be negative (got %v)", c.LaunchRate)
	}
	return nil
}
