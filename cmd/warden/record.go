package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aegisworld/warden/pkg/cli"
	"aegisworld/warden/pkg/guard"
)

var recordFlags struct {
	changeID string
	summary  string
	success  bool
	reason   string
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append a change-lifecycle event to the audit trail",
	Long: `Append a proposed/applied/reverted event to the audit trail.

The change ID ties the lifecycle events of one change together; when no
--change-id is given a UUID is generated and printed.`,
}

var recordProposedCmd = &cobra.Command{
	Use:   "proposed",
	Short: "Record a proposed change",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecord(cmd, func(g *guard.Guard, changeID string) {
			g.RecordProposed(changeID, recordFlags.summary)
		})
	},
}

var recordAppliedCmd = &cobra.Command{
	Use:   "applied",
	Short: "Record an applied change and its success flag",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecord(cmd, func(g *guard.Guard, changeID string) {
			g.RecordApplied(changeID, recordFlags.summary, recordFlags.success)
		})
	},
}

var recordRevertedCmd = &cobra.Command{
	Use:   "reverted",
	Short: "Record a reverted change and its reason",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecord(cmd, func(g *guard.Guard, changeID string) {
			g.RecordReverted(changeID, recordFlags.summary, recordFlags.reason)
		})
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.AddCommand(recordProposedCmd, recordAppliedCmd, recordRevertedCmd)

	recordCmd.PersistentFlags().StringVar(&recordFlags.changeID, "change-id", "", "change identifier (generated when empty)")
	recordCmd.PersistentFlags().StringVar(&recordFlags.summary, "summary", "", "one-line change description")
	recordAppliedCmd.Flags().BoolVar(&recordFlags.success, "success", false, "whether the deployment succeeded")
	recordRevertedCmd.Flags().StringVar(&recordFlags.reason, "reason", "", "why the change was reverted")
}

func runRecord(cmd *cobra.Command, record func(g *guard.Guard, changeID string)) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("record", err)
	}

	changeID := recordFlags.changeID
	if changeID == "" {
		changeID = uuid.New().String()
	}

	record(newGuard(cfg), changeID)
	fmt.Fprintf(cmd.OutOrStdout(), "recorded %s for change %s\n", cmd.Use, changeID)
	return nil
}
