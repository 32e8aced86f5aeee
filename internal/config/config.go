// Package config supplies defaults for CLI flags from an optional YAML file
// and environment variables. Explicit flags always win.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds flag defaults for all subcommands.
type Config struct {
	Timeline string `yaml:"timeline"`
	Label    string `yaml:"label"`
	ExportDB string `yaml:"export_db"`
}

// Load reads configuration from an optional YAML file and environment
// variables. Environment variables override file values.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv("TIMECODE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if timelinePath := os.Getenv("TIMECODE_TIMELINE"); timelinePath != "" {
		cfg.Timeline = timelinePath
	}
	if label := os.Getenv("TIMECODE_LABEL"); label != "" {
		cfg.Label = label
	}
	if exportDB := os.Getenv("TIMECODE_EXPORT_DB"); exportDB != "" {
		cfg.ExportDB = exportDB
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	// #nosec G304 -- config path comes from the operator's own environment.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
