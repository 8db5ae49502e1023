// Package config loads and validates the warden configuration file.
package config

import (
	"fmt"
	"time"
)

// Config is the top-level warden configuration.
type Config struct {
	Policy  PolicyConfig  `yaml:"policy"`
	Audit   AuditConfig   `yaml:"audit"`
	Inspect InspectConfig `yaml:"inspect"`
	Logging LoggingConfig `yaml:"logging"`
}

// PolicyConfig locates the policy source.
type PolicyConfig struct {
	// Path is the policy source location.
	Path string `yaml:"path"`
}

// AuditConfig configures the audit trail and its optional archive.
type AuditConfig struct {
	// LogPath is the append-only audit log location.
	LogPath string `yaml:"log_path"`

	// Archive configures the optional SQLite mirror.
	Archive ArchiveConfig `yaml:"archive"`
}

// ArchiveConfig configures the SQLite audit archive.
type ArchiveConfig struct {
	// Enabled turns the archive mirror on.
	Enabled bool `yaml:"enabled"`

	// DBPath is the archive database file path.
	DBPath string `yaml:"db_path"`

	// RetentionDays is how long archive rows are kept. 0 keeps forever.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

// InspectConfig configures the HTTP inspection server.
type InspectConfig struct {
	// ListenAddress is the host:port the inspection server binds to.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout bounds request header+body reads.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// ApplyDefaults fills in default values for unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Policy.Path == "" {
		cfg.Policy.Path = "policies/execution_policy.yaml"
	}
	if cfg.Audit.LogPath == "" {
		cfg.Audit.LogPath = "logs/autonomy_audit.log"
	}
	if cfg.Audit.Archive.DBPath == "" {
		cfg.Audit.Archive.DBPath = "data/audit_archive.db"
	}
	if cfg.Audit.Archive.RetentionDays == 0 {
		cfg.Audit.Archive.RetentionDays = 90
	}
	if cfg.Audit.Archive.PruneSchedule == "" {
		cfg.Audit.Archive.PruneSchedule = "0 3 * * *"
	}
	if cfg.Inspect.ListenAddress == "" {
		cfg.Inspect.ListenAddress = "127.0.0.1:8089"
	}
	if cfg.Inspect.ReadTimeout == 0 {
		cfg.Inspect.ReadTimeout = 10 * time.Second
	}
	if cfg.Inspect.WriteTimeout == 0 {
		cfg.Inspect.WriteTimeout = 10 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks the configuration for inconsistencies.
func Validate(cfg *Config) error {
	if cfg.Policy.Path == "" {
		return fmt.Errorf("policy.path must not be empty")
	}
	if cfg.Audit.LogPath == "" {
		return fmt.Errorf("audit.log_path must not be empty")
	}
	if cfg.Audit.Archive.Enabled && cfg.Audit.Archive.DBPath == "" {
		return fmt.Errorf("audit.archive.db_path must not be empty when the archive is enabled")
	}
	if cfg.Audit.Archive.RetentionDays < 0 {
		return fmt.Errorf("audit.archive.retention_days must not be negative")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", cfg.Logging.Level)
	}
	return nil
}
