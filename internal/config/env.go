package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// EnvConfig holds the LINETYPE_* environment overrides.
type EnvConfig struct {
	File     string `env:"LINETYPE_FILE"`
	Lines    int    `env:"LINETYPE_LINES"`
	Details  bool   `env:"LINETYPE_DETAILS"`
	Review   bool   `env:"LINETYPE_REVIEW"`
	LogFile  string `env:"LINETYPE_LOG_FILE"`
	LogLevel string `env:"LINETYPE_LOG_LEVEL"`
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Files that do not exist are skipped; variables that are
// already set win over the file.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields of base with the environment variables that are set.
// Unset variables leave the corresponding field untouched.
func ApplyEnv(base EnvConfig) (EnvConfig, error) {
	cfg := base
	if err := env.Parse(&cfg); err != nil {
		return base, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
