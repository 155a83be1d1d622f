// Package config provides configuration helpers and TOML/YAML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice" yaml:"practice"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	File    *string `toml:"file" yaml:"file"`
	Lines   *int    `toml:"lines" yaml:"lines"`
	Details *bool   `toml:"details" yaml:"details"`
	Review  *bool   `toml:"review" yaml:"review"`
}

// LogConfig maps debug log settings.
type LogConfig struct {
	File  *string `toml:"file" yaml:"file"`
	Level *string `toml:"level" yaml:"level"`
}

// LoadConfig reads a config from the given path. Paths ending in .yaml or .yml
// are decoded as YAML, everything else as TOML. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}
