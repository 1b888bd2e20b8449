package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

type Config struct {
	// Report format: "text" (default) or "json"
	Output  string  `yaml:"output,omitempty"`
	Logging Logging `yaml:"logging"`
	Export  Export  `yaml:"export"`
	Metrics Metrics `yaml:"metrics"`
}

type Logging struct {
	Level string `yaml:"level"`
}

type Export struct {
	// SQLite database the report is written to; empty disables export
	SQLite string `yaml:"sqlite,omitempty"`
}

type Metrics struct {
	// Prometheus textfile-collector file; empty disables it
	Textfile string `yaml:"textfile,omitempty"`
}

// defaultConfig provides baseline settings
var defaultConfig = Config{
	Output: OutputText,
	Logging: Logging{
		Level: "warn",
	},
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// Load reads the config file at path. With an empty path the default
// locations are tried and, if none exists, the defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		candidates := []string{
			"/etc/fmlogreport/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/fmlogreport/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := defaultConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// Apply defaults for fields the file left empty
	if cfg.Output == "" {
		cfg.Output = defaultConfig.Output
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultConfig.Logging.Level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.Output, OutputText, OutputJSON)
	}
	return nil
}
