package commands

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/leapstack-labs/calmetrics/internal/cli/output"
	"github.com/leapstack-labs/calmetrics/pkg/validate"
	"github.com/spf13/cobra"
)

// PassedMessage is printed when every input file passes.
const PassedMessage = "Public input validation passed."

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the public metric CSV inputs",
		Long: `Validate the public metric inputs in the data directory.

Checks, in order: the directory allow-list, then iter_summary.csv,
suite_progress.csv and the optional glossary.csv. Each file gets a schema
check, the content policy scan and the per-row field and invariant checks.
The first failure is reported and the command exits non-zero.

The validator only reads files.`,
		Example: `  # Validate ./data
  calmetrics validate

  # Validate another directory and get a JSON result
  calmetrics validate --data-dir public/data --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	report, err := cmdCtx.Validator().ValidateDir(cmdCtx.Cfg.DataDir)
	if err != nil {
		cmdCtx.Logger.Debug("validation failed", slog.String("rule", validate.RuleOf(err)))
		if r.EffectiveMode() == output.ModeJSON {
			if jerr := r.JSON(output.ValidationOutput{
				DataDir: cmdCtx.Cfg.DataDir,
				Failure: failureOutput(err),
			}); jerr != nil {
				return jerr
			}
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.ValidationOutput{
			Passed:  true,
			DataDir: report.Dir,
			Files:   fileInfos(report),
		})
	default:
		r.Success(PassedMessage)
		if cmdCtx.Cfg.Verbose {
			rows := make([][]string, 0, len(report.Files))
			for _, f := range report.Files {
				rows = append(rows, []string{f.Name, strconv.Itoa(f.Rows)})
			}
			r.Table([]string{"file", "rows"}, rows)
		}
	}
	return nil
}

func fileInfos(report *validate.Report) []output.FileInfo {
	files := make([]output.FileInfo, 0, len(report.Files))
	for _, f := range report.Files {
		files = append(files, output.FileInfo{Name: f.Name, Rows: f.Rows})
	}
	return files
}

func failureOutput(err error) *output.ValidationFailure {
	e, ok := validate.ErrorDetail(err)
	if !ok {
		return &output.ValidationFailure{Kind: "error", Message: err.Error()}
	}
	return &output.ValidationFailure{
		Kind:     string(e.Kind),
		Rule:     e.Rule,
		File:     e.File,
		Column:   e.Column,
		Line:     e.Line,
		Header:   e.Header,
		Term:     e.Term,
		Allowed:  e.Allowed,
		Message:  e.Message,
		Location: e.Location(),
	}
}
