package main

import (
	"os"

	"github.com/spf13/cobra"

	"aegisworld/warden/pkg/cli"
	"aegisworld/warden/pkg/policy/engine"
)

var checkFlags struct {
	files      []string
	domain     string
	port       int
	cpu        int
	ram        int
	runtime    int
	regression float64
	output     string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a proposed change against the execution policy",
	Long: `Evaluate a proposed change's declared facts against the loaded
execution policy and print the deployment decision.

The command exits 0 when the change is allowed and 1 when it is denied,
so it can gate a deployment pipeline directly.

Examples:
  # Check a change touching two files
  warden check --file game/ai/planner.go --file logs/notes.txt

  # Check a change that claims outbound network activity
  warden check --file tools/sync.go --domain api.example.com --port 443

  # Check declared resource usage and regression score
  warden check --file game/ai/planner.go --cpu 50 --ram 2048 --runtime 600 --regression 0.02`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringArrayVarP(&checkFlags.files, "file", "f", nil, "path the change intends to write (repeatable)")
	checkCmd.Flags().StringVar(&checkFlags.domain, "domain", "", "outbound domain the change claims (empty = no network activity)")
	checkCmd.Flags().IntVar(&checkFlags.port, "port", 0, "outbound port")
	checkCmd.Flags().IntVar(&checkFlags.cpu, "cpu", 0, "requested CPU percent")
	checkCmd.Flags().IntVar(&checkFlags.ram, "ram", 0, "requested RAM in MB")
	checkCmd.Flags().IntVar(&checkFlags.runtime, "runtime", 0, "requested runtime in seconds")
	checkCmd.Flags().Float64Var(&checkFlags.regression, "regression", 0, "regression score of the change")
	checkCmd.Flags().StringVarP(&checkFlags.output, "output", "o", "json", "output format (text, json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	g := newGuard(cfg)
	decision := g.EnforceBeforePatchDeployment(engine.Request{
		TouchedFiles:            checkFlags.files,
		OutboundDomain:          checkFlags.domain,
		OutboundPort:            checkFlags.port,
		RequestedCPUPercent:     checkFlags.cpu,
		RequestedRAMMB:          checkFlags.ram,
		RequestedRuntimeSeconds: checkFlags.runtime,
		RegressionScore:         checkFlags.regression,
	})

	formatter := cli.NewFormatter(cli.OutputFormat(checkFlags.output))
	if err := formatter.FormatTo(cmd.OutOrStdout(), decision); err != nil {
		return cli.NewCommandError("check", err)
	}

	if !decision.Allowed {
		os.Exit(1)
	}
	return nil
}
