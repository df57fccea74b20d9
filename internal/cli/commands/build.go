package commands

import (
	"fmt"

	"github.com/leapstack-labs/calmetrics/internal/cli/output"
	"github.com/leapstack-labs/calmetrics/internal/dashboard"
	"github.com/spf13/cobra"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate inputs and render the dashboard",
		Long: `Validate the public inputs, then render the dashboard.

Writes four charts to <assets-dir>/plots (ok_rate, mix_over_time,
suite_hardening, quality_gates) and <dashboard-dir>/index.md. Nothing is
written when validation fails.`,
		Example: `  # Build with the default directories
  calmetrics build

  # Also write dashboard/index.html
  calmetrics build --html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, false)
		},
	}
	cmd.Flags().Bool("html", false, "Also render the dashboard as HTML")
	return cmd
}

func runBuild(cmd *cobra.Command, check bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if err := cmdCtx.Cfg.ValidateDirectories(); err != nil {
		return err
	}

	res, err := cmdCtx.Builder().Build(cmd.Context())
	if err != nil {
		return err
	}

	if check {
		expected := dashboard.ExpectedOutputs(cmdCtx.Cfg.AssetsDir, cmdCtx.Cfg.DashboardDir)
		if err := dashboard.CheckOutputs(expected); err != nil {
			return err
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.BuildOutput{
			Outputs:      res.Outputs,
			LatestIter:   res.Snapshot.Summary.Iter,
			OKRate:       res.Snapshot.Summary.OKRate,
			SuiteVersion: res.Snapshot.Suite.SuiteVersion,
			Checked:      check,
		})
	}

	r.Success(PassedMessage)
	r.Success(fmt.Sprintf("Dashboard built for iteration %d (%d files).", res.Snapshot.Summary.Iter, len(res.Outputs)))
	for _, path := range res.Outputs {
		r.Muted("  " + path)
	}
	if check {
		r.Success("Acceptance checks passed.")
	}
	return nil
}
