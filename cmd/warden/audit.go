package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegisworld/warden/pkg/cli"
)

var recentFlags struct {
	limit  int
	output string
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent audit entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if recentFlags.limit <= 0 {
			return cli.NewCommandError("recent", fmt.Errorf("--limit must be positive (got %d)", recentFlags.limit))
		}

		cfg, err := loadConfig()
		if err != nil {
			return cli.NewCommandError("recent", err)
		}

		entries := newGuard(cfg).RecentEntries(recentFlags.limit)
		formatter := cli.NewFormatter(cli.OutputFormat(recentFlags.output))
		return formatter.FormatTo(cmd.OutOrStdout(), entries)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate counts of proposed/applied/reverted changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return cli.NewCommandError("stats", err)
		}

		summary := newGuard(cfg).AuditSummary()
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(cmd.OutOrStdout(), summary)
	},
}

func init() {
	rootCmd.AddCommand(recentCmd, statsCmd)

	recentCmd.Flags().IntVar(&recentFlags.limit, "limit", 20, "maximum number of entries to show")
	recentCmd.Flags().StringVarP(&recentFlags.output, "output", "o", "json", "output format (text, json)")
}
