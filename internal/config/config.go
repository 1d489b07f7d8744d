// Package config provides unified configuration loading for spikelab.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config contains all spikelab configuration settings.
type Config struct {
	// Simulation contains defaults for simulation runs.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Cases contains settings for the preset case store.
	Cases CasesConfig `json:"cases" yaml:"cases"`

	// Archive contains settings for the run archive.
	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	// Logging contains settings for operational and step-trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig holds run defaults.
type SimulationConfig struct {
	// Steps is the default number of discrete time steps per run.
	Steps int `json:"steps" yaml:"steps"`
}

// CasesConfig configures where user case files are loaded from.
type CasesConfig struct {
	// Dir is the directory scanned for case_*.yaml preset files.
	// Relative paths are resolved against the project root.
	Dir string `json:"dir" yaml:"dir"`
}

// ArchiveConfig configures run persistence.
type ArchiveConfig struct {
	// Enabled controls whether completed runs are written to the
	// SQLite archive under .spikelab/.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoggingConfig configures spikelab's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "trace" additionally writes per-step events to .spikelab/steps.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Steps: 20,
		},
		Cases: CasesConfig{
			Dir: "cases",
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration for the given project root.
// Order: defaults -> root/.spikelab/config.yaml -> environment variables.
func Load(root string) (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(root, ".spikelab", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		fileCfg, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Simulation.Steps <= 0 {
		return fmt.Errorf("simulation.steps must be positive, got %d", c.Simulation.Steps)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPIKELAB_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.Steps = n
		}
	}

	if v := os.Getenv("SPIKELAB_CASES_DIR"); v != "" {
		cfg.Cases.Dir = v
	}

	if v := os.Getenv("SPIKELAB_ARCHIVE"); v != "" {
		cfg.Archive.Enabled = v == "true" || v == "1"
	}

	if v := os.Getenv("SPIKELAB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
