// Package config loads the tool's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backends a report can be gathered from.
const (
	BackendVulkan  = "vulkan"
	BackendFixture = "fixture"
)

// Output formats. CSV only applies to the device summary.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// LoggingSettings defines logging configuration.
type LoggingSettings struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// OutputSettings controls how the report is written.
type OutputSettings struct {
	Format string `yaml:"format"` // text, json, yaml, csv
	Color  string `yaml:"color"`  // auto, always, never
}

// DriverSettings selects where capabilities come from.
type DriverSettings struct {
	Backend string `yaml:"backend"` // vulkan, fixture
	Fixture string `yaml:"fixture"` // path of the fixture file for the fixture backend
}

// SummarySettings configures the device summary.
type SummarySettings struct {
	PreferredDevice string `yaml:"preferred_device"`
}

// Config holds the configuration of one run.
type Config struct {
	Logging LoggingSettings `yaml:"logging"`
	Output  OutputSettings  `yaml:"output"`
	Driver  DriverSettings  `yaml:"driver"`
	Summary SummarySettings `yaml:"summary"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingSettings{Level: "warn", Format: "text"},
		Output:  OutputSettings{Format: FormatText, Color: "auto"},
		Driver:  DriverSettings{Backend: BackendVulkan},
		Summary: SummarySettings{PreferredDevice: "auto"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values. A relative fixture path is resolved against the directory of
// the config file.
func Load(path string) (*Config, error) {
	// #nosec G304 - path is from command-line args, not untrusted network input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.Driver.Fixture != "" && !filepath.IsAbs(cfg.Driver.Fixture) {
		cfg.Driver.Fixture = filepath.Join(filepath.Dir(path), cfg.Driver.Fixture)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ToYAML serializes the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
