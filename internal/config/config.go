package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultInputPath  = "data.txt"
	DefaultOutputPath = "results.txt"
	DefaultThreshold  = 10.0
	DefaultCapacity   = 255
	DefaultPrecision  = 6
	DefaultLogLevel   = "info"
	DefaultOnError    = "abort"
)

// Environment variables that override file values.
const (
	EnvInput     = "UTILISATION_INPUT"
	EnvOutput    = "UTILISATION_OUTPUT"
	EnvThreshold = "UTILISATION_THRESHOLD"
	EnvCapacity  = "UTILISATION_CAPACITY"
	EnvMetrics   = "UTILISATION_METRICS"
	EnvLogLevel  = "UTILISATION_LOG_LEVEL"
)

// Config is the full configuration of a utilisation run.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Threshold is the trigger level: readings >= Threshold count as active use.
	Threshold float64 `yaml:"threshold"`

	// Capacity is the maximum number of readings held in one run.
	Capacity int `yaml:"capacity"`

	// Watch keeps the process running and recomputes whenever the input or
	// config file changes.
	Watch bool `yaml:"watch"`

	// LogLevel is one of: debug | info | warn | error.
	// debug logs every decoded reading.
	LogLevel string `yaml:"log_level"`
}

// InputConfig describes the sensor log.
type InputConfig struct {
	// Path is the file of reversed readings.
	Path string `yaml:"path"`

	// OnDecodeError is abort (stop at the first bad token) or skip.
	OnDecodeError string `yaml:"on_decode_error"`
}

// OutputConfig describes the result file.
type OutputConfig struct {
	Path      string `yaml:"path"`
	Precision int    `yaml:"precision"`
}

// MetricsConfig describes the optional Prometheus textfile.
type MetricsConfig struct {
	// Path of the .prom file. Empty disables the metrics sink.
	Path string `yaml:"path"`

	// SourceLabel is the value of the "source" label. Defaults to Input.Path.
	SourceLabel string `yaml:"source_label"`
}

// Source returns the label value for exported metrics.
func (c *Config) Source() string {
	if c.Metrics.SourceLabel != "" {
		return c.Metrics.SourceLabel
	}
	return c.Input.Path
}

// Level returns LogLevel as a slog.Level. Unknown values map to info;
// validate rejects them before this is reached.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	return finish(cfg)
}

// FromEnv returns the default config with environment overrides applied.
func FromEnv() (*Config, error) {
	return finish(defaults())
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Input: InputConfig{
			Path:          DefaultInputPath,
			OnDecodeError: DefaultOnError,
		},
		Output: OutputConfig{
			Path:      DefaultOutputPath,
			Precision: DefaultPrecision,
		},
		Threshold: DefaultThreshold,
		Capacity:  DefaultCapacity,
		LogLevel:  DefaultLogLevel,
	}
}

// applyEnv overrides cfg with any UTILISATION_* variables that are set.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvInput); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv(EnvMetrics); v != "" {
		cfg.Metrics.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvThreshold); v != "" {
		th, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q", EnvThreshold, v)
		}
		cfg.Threshold = th
	}
	if v := os.Getenv(EnvCapacity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q", EnvCapacity, v)
		}
		cfg.Capacity = n
	}
	return nil
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	if cfg.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	if filepath.Clean(cfg.Output.Path) == filepath.Clean(cfg.Input.Path) {
		return fmt.Errorf("output.path must differ from input.path")
	}
	if cfg.Metrics.Path != "" && filepath.Clean(cfg.Metrics.Path) == filepath.Clean(cfg.Input.Path) {
		return fmt.Errorf("metrics.path must differ from input.path")
	}
	if cfg.Output.Precision < 0 {
		return fmt.Errorf("output.precision must not be negative")
	}
	if cfg.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive")
	}
	if math.IsNaN(cfg.Threshold) || math.IsInf(cfg.Threshold, 0) {
		return fmt.Errorf("threshold must be a finite number")
	}
	switch cfg.Input.OnDecodeError {
	case "abort", "skip":
	default:
		return fmt.Errorf("input.on_decode_error %q unknown: want abort|skip", cfg.Input.OnDecodeError)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q unknown: want debug|info|warn|error", cfg.LogLevel)
	}
	return nil
}
