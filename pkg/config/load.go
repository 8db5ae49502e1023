package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, applies
// WARDEN_* environment variable overrides, and validates the result.
// A missing file is not an error: the defaults are used.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables use the format WARDEN_SECTION_FIELD and always take precedence
// over file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("WARDEN_POLICY_PATH"); val != "" {
		cfg.Policy.Path = val
	}
	if val := os.Getenv("WARDEN_AUDIT_LOG_PATH"); val != "" {
		cfg.Audit.LogPath = val
	}
	if val := os.Getenv("WARDEN_INSPECT_LISTEN_ADDRESS"); val != "" {
		cfg.Inspect.ListenAddress = val
	}
	if val := os.Getenv("WARDEN_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
}
