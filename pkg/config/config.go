package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tool configuration loaded from a YAML file.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format"`
	// Prompt is printed before each command is read.
	Prompt string `yaml:"prompt"`
	// ShellPassthrough forwards unrecognized commands to the host shell.
	ShellPassthrough bool `yaml:"shell_passthrough"`
	// Circuit, if set, is a netlist file loaded at startup as if by READ.
	Circuit string `yaml:"circuit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Prompt:           "Command> ",
		ShellPassthrough: true,
	}
}

// Load reads a configuration file, applying defaults for unset fields.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}
