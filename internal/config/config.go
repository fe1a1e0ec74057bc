// Package config loads the server's YAML configuration file.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the identity and policies of a tool server
type Config struct {
	// Name and Version identify the server to clients during initialize
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Instructions describe the server's tools for clients
	Instructions string `yaml:"instructions"`

	// DisabledTools names tools that are skipped at registration
	DisabledTools []string `yaml:"disabledTools"`

	// RateLimit configures dispatch rate limiting; nil disables it
	RateLimit *RateLimit `yaml:"rateLimit"`
}

// RateLimit mirrors the server's rate limiting knobs
type RateLimit struct {
	GlobalRPS   float64            `yaml:"globalRps"`
	GlobalBurst int                `yaml:"globalBurst"`
	MethodRPS   map[string]float64 `yaml:"methodRps"`
	MethodBurst map[string]int     `yaml:"methodBurst"`
	ToolRPS     map[string]float64 `yaml:"toolRps"`
	ToolBurst   map[string]int     `yaml:"toolBurst"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Name:    "toolrpc",
		Version: "dev",
	}
}

// LoadFile loads configuration from a file, returning defaults when the
// path is empty or the file does not exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads configuration from an io.Reader
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: name must not be empty")
	}
	if c.RateLimit != nil {
		if c.RateLimit.GlobalRPS < 0 {
			return fmt.Errorf("config: globalRps must not be negative")
		}
		for method, rps := range c.RateLimit.MethodRPS {
			if rps <= 0 {
				return fmt.Errorf("config: methodRps for %q must be positive", method)
			}
		}
		for name, rps := range c.RateLimit.ToolRPS {
			if rps <= 0 {
				return fmt.Errorf("config: toolRps for %q must be positive", name)
			}
		}
	}
	return nil
}

// Disabled reports whether the named tool is disabled
func (c *Config) Disabled(name string) bool {
	for _, disabled := range c.DisabledTools {
		if disabled == name {
			return true
		}
	}
	return false
}
