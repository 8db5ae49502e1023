package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aegisworld/warden/pkg/cli"
	"aegisworld/warden/pkg/policy"
)

var validateCmd = &cobra.Command{
	Use:   "validate [policy-file]",
	Short: "Parse a policy source and report errors",
	Long: `Parse a policy source and report parse errors without enforcing
anything. With no argument the configured policy path is validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return cli.NewCommandError("validate", err)
		}

		path := cfg.Policy.Path
		if len(args) == 1 {
			path = args[0]
		}

		pol, err := policy.Parse(path)
		if err != nil {
			return cli.NewCommandError("validate", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"%s: ok (%d allow prefixes, %d deny prefixes, %d domains, %d ports)\n",
			path,
			len(pol.WritableAllowPrefixes),
			len(pol.WritableDenyPrefixes),
			len(pol.AllowedDomains),
			len(pol.AllowedPorts),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
