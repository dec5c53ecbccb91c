// Package config holds kwc's application configuration: where snapshots and
// the database live, how output is rendered, and the detector tuning.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/adscope/kwc/internal/cannibalization"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultConfigFile is looked up in the working directory when --config is not given
const DefaultConfigFile = "kwc.yaml"

// Config is the application configuration
type Config struct {
	// Database is the SQLite file used by import and by analyze --db
	// Default: .kwc/kwc.db
	Database string `yaml:"database" json:"database"`

	// SnapshotFile is analyzed when no file argument is given
	// Default: "" (a file or --db is required)
	SnapshotFile string `yaml:"snapshot_file,omitempty" json:"snapshot_file,omitempty"`

	// MetricsFile, when set, receives Prometheus metrics after each run
	// Default: "" (disabled)
	MetricsFile string `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`

	// Format is the CLI output format: text, json or yaml
	// Default: text
	Format string `yaml:"format" json:"format"`

	// StrictInput rejects snapshots containing invalid records instead of
	// logging a warning and keeping them
	// Default: false
	StrictInput bool `yaml:"strict_input" json:"strict_input"`

	// Engine tunes the detectors
	Engine cannibalization.Config `yaml:"engine" json:"engine"`
}

// DefaultConfig returns the default application configuration
func DefaultConfig() Config {
	return Config{
		Database: filepath.Join(".kwc", "kwc.db"),
		Format:   FormatText,
		Engine:   cannibalization.DefaultConfig(),
	}
}

// Load reads a YAML config file on top of the defaults. Keys missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve loads path if given, else DefaultConfigFile if it exists, else the
// defaults; then applies the environment.
func Resolve(path string) (*Config, error) {
	var cfg *Config
	switch {
	case path != "":
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			loaded, err := Load(DefaultConfigFile)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else {
			defaults := DefaultConfig()
			cfg = &defaults
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("format must be %q, %q or %q (got %q)", FormatText, FormatJSON, FormatYAML, c.Format)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Database: %s, SnapshotFile: %q, MetricsFile: %q, Format: %s, StrictInput: %t, Engine: %s}",
		c.Database, c.SnapshotFile, c.MetricsFile, c.Format, c.StrictInput, c.Engine,
	)
}

// ApplyEnv overlays environment variables onto the config
//
// Environment variables:
//   - KWC_DB: SQLite database path
//   - KWC_SNAPSHOT: default snapshot file
//   - KWC_METRICS_FILE: Prometheus textfile output
//   - KWC_FORMAT: text, json or yaml
//   - KWC_STRICT_INPUT: reject invalid records (true/false)
//   - KWC_* detector variables, see cannibalization.ApplyEnv
//
// Returns an error if any environment variable has an invalid value.
func (c *Config) ApplyEnv() error {
	parseEnvString("KWC_DB", &c.Database)
	parseEnvString("KWC_SNAPSHOT", &c.SnapshotFile)
	parseEnvString("KWC_METRICS_FILE", &c.MetricsFile)
	parseEnvString("KWC_FORMAT", &c.Format)
	if err := parseEnvBool("KWC_STRICT_INPUT", &c.StrictInput); err != nil {
		return err
	}

	engine, err := cannibalization.ApplyEnv(c.Engine)
	if err != nil {
		return err
	}
	c.Engine = engine

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return nil
}

// FromEnv returns the defaults overlaid with the environment
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv()
	return cfg, err
}

// parseEnvBool parses a bool from an environment variable
func parseEnvBool(key string, dest *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvString parses a string from an environment variable
func parseEnvString(key string, dest *string) {
	if value := os.Getenv(key); value != "" {
		*dest = value
	}
}
