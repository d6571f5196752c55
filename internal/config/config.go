// Package config provides unified configuration loading for faultbench.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all faultbench configuration settings.
type Config struct {
	// Injection contains fault-injection sweep settings.
	Injection InjectionConfig `json:"injection" yaml:"injection"`

	// Binaries locates the external programs the harness drives.
	Binaries BinariesConfig `json:"binaries" yaml:"binaries"`

	// Logging contains settings for operational and trial-trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// InjectionConfig configures how fault-injected runs are built and bounded.
type InjectionConfig struct {
	// ErrorRate is the injection rate applied to whichever error class a
	// trial targets. The inactive class always runs at rate zero.
	ErrorRate float64 `json:"error_rate" yaml:"error_rate"`

	// Timeout bounds the wall-clock time of a single target run.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Tolerance is the absolute score tolerance when comparing a corrupted
	// run against its baseline.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// UnmarshalYAML decodes an injection section, accepting Go duration strings
// ("10s", "500ms") for the timeout. Fields absent from the document keep
// their current values.
func (ic *InjectionConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ErrorRate *float64 `yaml:"error_rate"`
		Timeout   string   `yaml:"timeout"`
		Tolerance *float64 `yaml:"tolerance"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.ErrorRate != nil {
		ic.ErrorRate = *raw.ErrorRate
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		ic.Timeout = d
	}
	if raw.Tolerance != nil {
		ic.Tolerance = *raw.Tolerance
	}
	return nil
}

// BinariesConfig locates the target program and the supervisor.
type BinariesConfig struct {
	// Target is the ranking program under test. It accepts a single
	// positional seed argument.
	Target string `json:"target" yaml:"target"`

	// Supervisor is the fault-injection supervisor wrapping the target.
	Supervisor string `json:"supervisor" yaml:"supervisor"`
}

// LoggingConfig configures faultbench's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables trial tracing to trace.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Injection: InjectionConfig{
			ErrorRate: 0.001,
			Timeout:   10 * time.Second,
			Tolerance: 1e-6,
		},
		Binaries: BinariesConfig{
			Target:     "pagerank",
			Supervisor: "process_monitor",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.faultbench/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	// Try to load from default config file
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".faultbench", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	// Apply environment variable overrides
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
	if c.Injection.ErrorRate <= 0 || c.Injection.ErrorRate > 1 {
		return fmt.Errorf("error_rate must be in (0, 1], got %f", c.Injection.ErrorRate)
	}

	if c.Injection.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Injection.Timeout)
	}

	if c.Injection.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Injection.Tolerance)
	}

	if c.Binaries.Target == "" {
		return fmt.Errorf("target binary is required")
	}
	if c.Binaries.Supervisor == "" {
		return fmt.Errorf("supervisor binary is required")
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("FAULTBENCH_ERROR_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Injection.ErrorRate = f
		}
	}

	if v := os.Getenv("FAULTBENCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Injection.Timeout = d
		}
	}

	if v := os.Getenv("FAULTBENCH_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Injection.Tolerance = f
		}
	}

	if v := os.Getenv("FAULTBENCH_TARGET"); v != "" {
		config.Binaries.Target = v
	}

	if v := os.Getenv("FAULTBENCH_SUPERVISOR"); v != "" {
		config.Binaries.Supervisor = v
	}

	if v := os.Getenv("FAULTBENCH_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
