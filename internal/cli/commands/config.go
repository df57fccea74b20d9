package commands

import (
	"fmt"

	"github.com/leapstack-labs/calmetrics/internal/cli/config"
	"github.com/leapstack-labs/calmetrics/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after defaults, calmetrics.yaml, CALMETRICS_*
environment variables and flags have been applied.`,
		Example: `  calmetrics config
  CALMETRICS_MIX_TOLERANCE=0.05 calmetrics config --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(cmdCtx.Cfg)
			}

			data, err := yaml.Marshal(cmdCtx.Cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if file := config.GetConfigFileUsed(); file != "" {
				r.Printf("# config file: %s\n", file)
			}
			r.Printf("%s", data)
			return nil
		},
	}
	return cmd
}
