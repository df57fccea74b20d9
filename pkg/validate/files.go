package validate

import "github.com/leapstack-labs/calmetrics/pkg/table"

// Known input file names.
const (
	IterationSummaryFile = "iter_summary.csv"
	SuiteProgressFile    = "suite_progress.csv"
	GlossaryFile         = "glossary.csv"
)

// FileSpec describes how one known input file is validated.
type FileSpec struct {
	Name     string
	Required bool
	Columns  []string
	// Restricted lists the narrative columns scanned with the restricted denylist.
	Restricted []string
	// CheckRow runs the per-row field and invariant checks; nil means none.
	CheckRow func(c *rowChecker)
}

// IterationSummarySpec returns the spec for iter_summary.csv.
func IterationSummarySpec() FileSpec {
	return FileSpec{
		Name:       IterationSummaryFile,
		Required:   true,
		Columns:    IterationSummaryColumns(),
		Restricted: []string{"notes"},
		CheckRow:   checkIterationSummaryRow,
	}
}

// SuiteProgressSpec returns the spec for suite_progress.csv.
func SuiteProgressSpec() FileSpec {
	return FileSpec{
		Name:       SuiteProgressFile,
		Required:   true,
		Columns:    SuiteProgressColumns(),
		Restricted: []string{"suite_changes", "caveats"},
		CheckRow:   checkSuiteProgressRow,
	}
}

// GlossarySpec returns the spec for glossary.csv. The glossary is checked
// structurally only.
func GlossarySpec() FileSpec {
	return FileSpec{
		Name:    GlossaryFile,
		Columns: GlossaryColumns(),
	}
}

// Specs returns the specs of all known files in validation order.
func Specs() []FileSpec {
	return []FileSpec{IterationSummarySpec(), SuiteProgressSpec(), GlossarySpec()}
}

// AllowedFiles returns the names permitted in the input directory.
func AllowedFiles() []string {
	specs := Specs()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

var flagColumns = []string{
	"generation_required",
	"refusal_slice_enabled",
	"token_constraint_enabled",
	"stabilised",
	"quality_gate_pass",
}

func checkIterationSummaryRow(c *rowChecker) {
	for _, col := range []string{"ok_rate", "AR", "AWI", "AWS"} {
		c.unit(c.float(col), col)
	}
	c.atLeast("iter", 0)
	c.atLeast("n", 1)
}

func checkSuiteProgressRow(c *rowChecker) {
	ask := c.float("mix_ask")
	answer := c.float("mix_answer")
	refuse := c.float("mix_refuse")
	c.unit(ask, "mix_ask")
	c.unit(answer, "mix_answer")
	c.unit(refuse, "mix_refuse")
	c.mixSum(ask, answer, refuse)

	c.atLeast("constraint_level", 1)
	for _, col := range flagColumns {
		c.yesNo(col)
	}
	c.enum("format_strictness", strictnessValues)
	c.atLeast("stabilisation_runs", 0)
	c.atLeast("iter", 0)
	c.atLeast("n", 1)
}

// rowChecker runs checks against one row and keeps the first failure.
// Once err is set every further check is a no-op.
type rowChecker struct {
	file      string
	row       table.Row
	tolerance float64
	err       error
}

func (c *rowChecker) fail(err error) {
	if err == nil || c.err != nil {
		return
	}
	if e, ok := ErrorDetail(err); ok && e.Line == 0 {
		e.Line = c.row.Line
	}
	c.err = err
}

func (c *rowChecker) float(col string) float64 {
	if c.err != nil {
		return 0
	}
	v, err := ParseFloat(c.row.Value(col), c.file, col)
	c.fail(err)
	return v
}

func (c *rowChecker) unit(v float64, col string) {
	if c.err != nil {
		return
	}
	c.fail(EnsureRange(v, 0, 1, c.file, col))
}

func (c *rowChecker) atLeast(col string, minimum int64) {
	if c.err != nil {
		return
	}
	v, err := ParseInt(c.row.Value(col), c.file, col)
	if err != nil {
		c.fail(err)
		return
	}
	c.fail(EnsureAtLeast(v, minimum, c.file, col))
}

func (c *rowChecker) mixSum(ask, answer, refuse float64) {
	if c.err != nil {
		return
	}
	c.fail(EnsureMixSumsToOne(ask, answer, refuse, c.tolerance, c.file))
}

func (c *rowChecker) yesNo(col string) {
	if c.err != nil {
		return
	}
	c.fail(EnsureYesNo(c.row.Value(col), c.file, col))
}

func (c *rowChecker) enum(col string, allowed []string) {
	if c.err != nil {
		return
	}
	c.fail(EnsureEnum(c.row.Value(col), allowed, c.file, col))
}
