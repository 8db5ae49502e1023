package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"aegisworld/warden/pkg/config"
	"aegisworld/warden/pkg/guard"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Warden - pre-deployment policy gate for autonomous code changes",
	Long: `Warden gates an autonomous code-modifying agent's patch deployments.

Before the agent writes files, opens network connections, consumes compute
resources, or deploys a patch, warden evaluates the proposed action against
a declarative policy and either allows it or returns a specific denial
reason. Every lifecycle event of a proposed change (proposed, applied,
reverted) is appended to a durable audit trail, which also drives the
circuit breaker that halts autonomy after repeated failures.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "warden.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := parseLogLevel(cfg.Logging.Level)
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newGuard builds a guard from the loaded configuration and loads the
// policy source. A missing policy source is tolerated: the guard keeps its
// default snapshot, matching the gate's degrade-to-defaults behavior.
func newGuard(cfg *config.Config) *guard.Guard {
	g := guard.New(&guard.Config{
		PolicyPath:   cfg.Policy.Path,
		AuditLogPath: cfg.Audit.LogPath,
	})
	if err := g.ReloadPolicy(); err != nil {
		slog.Warn("policy source not loaded, using defaults",
			"policy_path", cfg.Policy.Path,
			"error", err,
		)
	}
	return g
}
