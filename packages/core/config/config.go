package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the specbridge configuration
type Config struct {
	Output     string `yaml:"output,omitempty"`     // console, json, junit, tap
	OutputFile string `yaml:"outputFile,omitempty"` // write output here instead of stdout
	History    string `yaml:"history,omitempty"`    // path to the run-history database
	Verbose    *bool  `yaml:"verbose,omitempty"`
	NoColor    *bool  `yaml:"noColor,omitempty"`
	Strict     *bool  `yaml:"strict,omitempty"` // schema-validate result documents
	Bail       *bool  `yaml:"bail,omitempty"`   // stop at the first failing spec
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetStrict returns the strict setting, defaulting to false
func (c *Config) GetStrict() bool {
	return getBool(c.Strict, false)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetOutput returns the output format, defaulting to console
func (c *Config) GetOutput() string {
	if c.Output == "" {
		return "console"
	}
	return c.Output
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".specbridge.yaml",
	".specbridge.yml",
	"specbridge.yaml",
}

// LoadConfig loads configuration from the specified path or searches
// the working directory for a config file. A missing file is not an
// error: the zero config applies.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	for _, name := range ConfigFilenames {
		if _, err := os.Stat(name); err == nil {
			return loadConfigFromFile(name)
		}
	}
	return &Config{}, nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
