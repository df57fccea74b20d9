package validate

import (
	"fmt"
	"slices"
	"strings"
)

// Expected column lists. Order matters: any reordering is a schema failure.
var (
	iterSummaryColumns = []string{
		"iter", "date_utc", "n", "ok_rate", "AR", "AWI", "AWS", "notes",
	}

	suiteProgressColumns = []string{
		"iter",
		"date_utc",
		"n",
		"mix_ask",
		"mix_answer",
		"mix_refuse",
		"suite_version",
		"suite_changes",
		"constraint_level",
		"generation_required",
		"format_strictness",
		"refusal_slice_enabled",
		"token_constraint_enabled",
		"stabilised",
		"stabilisation_runs",
		"quality_gate_pass",
		"caveats",
	}

	glossaryColumns = []string{"key", "label", "description"}
)

// IterationSummaryColumns returns the expected header of iter_summary.csv.
func IterationSummaryColumns() []string { return slices.Clone(iterSummaryColumns) }

// SuiteProgressColumns returns the expected header of suite_progress.csv.
func SuiteProgressColumns() []string { return slices.Clone(suiteProgressColumns) }

// GlossaryColumns returns the expected header of glossary.csv.
func GlossaryColumns() []string { return slices.Clone(glossaryColumns) }

// EnsureColumns fails unless actual equals expected element by element.
func EnsureColumns(actual, expected []string, file string) error {
	if slices.Equal(actual, expected) {
		return nil
	}
	return &Error{
		Kind:    KindSchema,
		Rule:    RuleColumns,
		File:    file,
		Message: describeColumnMismatch(actual, expected),
	}
}

func describeColumnMismatch(actual, expected []string) string {
	var missing, extra []string
	for _, col := range expected {
		if !slices.Contains(actual, col) {
			missing = append(missing, col)
		}
	}
	for _, col := range actual {
		if !slices.Contains(expected, col) {
			extra = append(extra, col)
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(extra, ", "))
	}
	if len(parts) == 0 {
		// Same members: either reordered or duplicated.
		parts = append(parts, "columns out of order")
	}

	return fmt.Sprintf("columns must be [%s], got [%s] (%s)",
		strings.Join(expected, ","), strings.Join(actual, ","), strings.Join(parts, "; "))
}
