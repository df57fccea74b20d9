package commands

import (
	"log/slog"

	"github.com/leapstack-labs/calmetrics/internal/cli/config"
	"github.com/leapstack-labs/calmetrics/internal/cli/output"
	"github.com/leapstack-labs/calmetrics/internal/dashboard"
	"github.com/leapstack-labs/calmetrics/pkg/validate"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with config, logger and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Validator creates a validator from the configured thresholds.
func (c *CommandContext) Validator() *validate.Validator {
	vc := c.Cfg.ValidatorConfig()
	vc.Logger = c.Logger
	return validate.New(vc)
}

// Builder creates a dashboard builder from the configured directories.
func (c *CommandContext) Builder() *dashboard.Builder {
	return dashboard.New(dashboard.Config{
		DataDir:      c.Cfg.DataDir,
		AssetsDir:    c.Cfg.AssetsDir,
		DashboardDir: c.Cfg.DashboardDir,
		HTML:         c.Cfg.HTML,
		Validator:    c.Validator(),
		Logger:       c.Logger,
	})
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise loads defaults
// and environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	if cfg, err := config.LoadConfig("", nil); err == nil {
		return cfg
	}
	return &config.Config{
		DataDir:       config.DefaultDataDir,
		AssetsDir:     config.DefaultAssetsDir,
		DashboardDir:  config.DefaultDashboardDir,
		MixTolerance:  config.DefaultMixTolerance,
		MaxCellLength: config.DefaultMaxCellLength,
		LogLevel:      config.DefaultLogLevel,
		OutputFormat:  config.DefaultOutput,
	}
}
