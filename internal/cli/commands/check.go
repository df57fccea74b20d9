package commands

import (
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the acceptance checks",
		Long: `Validate the inputs, build the dashboard, then verify that every
expected output exists: the four charts and dashboard/index.md.`,
		Example: `  calmetrics check`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, true)
		},
	}
	return cmd
}
