package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/leapstack-labs/calmetrics/internal/cli/output"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.MixTolerance <= 0 || c.MixTolerance >= 1 {
		return fmt.Errorf("mix_tolerance must be in (0, 1), got %g", c.MixTolerance)
	}
	if c.MaxCellLength <= 0 {
		return fmt.Errorf("max_cell_length must be positive, got %d", c.MaxCellLength)
	}
	if !output.Mode(c.OutputFormat).Valid() {
		return fmt.Errorf("unknown output format %q (expected one of %s)",
			c.OutputFormat, strings.Join(output.Modes(), ", "))
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok && c.LogLevel != "" {
		levels := make([]string, 0, len(logLevels))
		for name := range logLevels {
			levels = append(levels, name)
		}
		slices.Sort(levels)
		return fmt.Errorf("unknown log_level %q (expected one of %s)", c.LogLevel, strings.Join(levels, ", "))
	}
	return nil
}

// ValidateDirectories checks that the data directory exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.DataDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s\nHint: Create the directory or use --data-dir to specify a different path", c.DataDir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path is not a directory: %s", c.DataDir)
	}
	return nil
}

// Level returns the slog level for the configuration. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	if lvl, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return lvl
	}
	return slog.LevelWarn
}
