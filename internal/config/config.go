// Package config provides unified configuration loading for fetbench.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fetbench/fetbench/internal/bench"
	"gopkg.in/yaml.v3"
)

// FileName is the per-device-root config file, loaded when present.
const FileName = "fetbench.yaml"

// Duration wraps time.Duration so YAML can use forms like "30m" or "90s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config contains all fetbench configuration settings.
type Config struct {
	// Simulator contains simulator command settings.
	Simulator SimulatorConfig `yaml:"simulator"`

	// Logging contains settings for operational and run-event logging.
	Logging LoggingConfig `yaml:"logging"`

	// ResultsDir is the output directory, relative to the device root
	// unless absolute.
	ResultsDir string `yaml:"results_dir"`

	// Benches declares extra benches, merged over the built-ins by name.
	Benches []bench.Bench `yaml:"benches,omitempty"`
}

// SimulatorConfig configures the external simulator commands.
type SimulatorConfig struct {
	// Ngspice is the ngspice executable name or path.
	Ngspice string `yaml:"ngspice"`

	// Spectre is the Spectre wrapper executable name or path. Sites
	// without the default wrapper set this (or pass --command).
	Spectre string `yaml:"spectre"`

	// Timeout bounds a single simulator run. Zero disables the bound;
	// characterization sweeps can legitimately run for a long time.
	Timeout Duration `yaml:"timeout,omitempty"`
}

// LoggingConfig configures fetbench's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables run-event logging to <results>/runs.jsonl.
	Level string `yaml:"level"`
}

// Command returns the configured executable for the simulator family.
func (c SimulatorConfig) Command(sim bench.Simulator) string {
	switch sim {
	case bench.Spectre:
		if c.Spectre != "" {
			return c.Spectre
		}
		return bench.DefaultSpectreCommand
	default:
		if c.Ngspice != "" {
			return c.Ngspice
		}
		return bench.DefaultNgspiceCommand
	}
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulator: SimulatorConfig{
			Ngspice: bench.DefaultNgspiceCommand,
			Spectre: bench.DefaultSpectreCommand,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		ResultsDir: "results",
	}
}

// Load loads configuration for a device root: defaults, then
// <root>/fetbench.yaml when present, then environment variables.
func Load(root string) (*Config, error) {
	config := Default()

	configPath := filepath.Join(root, FileName)
	if _, statErr := os.Stat(configPath); statErr == nil {
		fileConfig, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Simulator.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", time.Duration(c.Simulator.Timeout))
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	if c.ResultsDir == "" {
		return fmt.Errorf("results_dir must not be empty")
	}

	for _, b := range c.Benches {
		if err := b.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("FETBENCH_NGSPICE"); v != "" {
		config.Simulator.Ngspice = v
	}

	if v := os.Getenv("FETBENCH_SPECTRE"); v != "" {
		config.Simulator.Spectre = v
	}

	if v := os.Getenv("FETBENCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Simulator.Timeout = Duration(d)
		}
	}

	if v := os.Getenv("FETBENCH_RESULTS_DIR"); v != "" {
		config.ResultsDir = v
	}

	if v := os.Getenv("FETBENCH_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
