package main

import (
	"context"

	"github.com/spf13/cobra"

	"aegisworld/warden/pkg/audit"
	"aegisworld/warden/pkg/audit/archive"
	"aegisworld/warden/pkg/cli"
	"aegisworld/warden/pkg/config"
	"aegisworld/warden/pkg/guard"
	"aegisworld/warden/pkg/inspect"
)

var serveFlags struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local HTTP inspection API",
	Long: `Serve the audit inspection API: GET /changes?limit=N for recent
entries, GET /stats for aggregate counts, GET /healthz, and GET /metrics
for Prometheus metrics.

When the audit archive is enabled in the configuration, the archive is
rebuilt from the audit log at startup and pruned on the configured
retention schedule.

Examples:
  # Serve on the configured address
  warden serve

  # Override the listen address
  warden serve --listen 0.0.0.0:8089`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	if serveFlags.listenAddress != "" {
		cfg.Inspect.ListenAddress = serveFlags.listenAddress
	}

	ctx := cli.SetupSignalHandler()

	guardCfg := &guard.Config{
		PolicyPath:   cfg.Policy.Path,
		AuditLogPath: cfg.Audit.LogPath,
	}

	if cfg.Audit.Archive.Enabled {
		store, pruner, err := startArchive(ctx, cfg)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer store.Close()
		defer pruner.Stop()
		guardCfg.Archive = store
	}

	g := guard.New(guardCfg)
	if err := g.ReloadPolicy(); err != nil {
		cmd.PrintErrf("policy source not loaded, using defaults: %v\n", err)
	}

	server := inspect.NewServer(g, &inspect.Config{
		ListenAddress: cfg.Inspect.ListenAddress,
		ReadTimeout:   cfg.Inspect.ReadTimeout,
		WriteTimeout:  cfg.Inspect.WriteTimeout,
	})
	return server.Start(ctx)
}

// startArchive opens the SQLite archive, rebuilds it from the audit log,
// and starts the retention scheduler.
func startArchive(ctx context.Context, cfg *config.Config) (*archive.Storage, *archive.Pruner, error) {
	store, err := archive.New(&archive.Config{Path: cfg.Audit.Archive.DBPath})
	if err != nil {
		return nil, nil, err
	}

	// Full rebuild keeps the archive consistent with records written while
	// no server was running.
	reader := audit.NewReader(cfg.Audit.LogPath)
	if err := store.ReplaceAll(ctx, reader.AllEntries()); err != nil {
		store.Close()
		return nil, nil, err
	}

	pruner := archive.NewPruner(store, &archive.RetentionConfig{
		RetentionDays: cfg.Audit.Archive.RetentionDays,
		Schedule:      cfg.Audit.Archive.PruneSchedule,
	})
	if err := pruner.Start(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, pruner, nil
}
