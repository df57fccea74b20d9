package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/calmetrics/internal/testutil"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	return New(Config{Logger: testutil.NewTestLogger(t)})
}

func TestValidateDir_Valid(t *testing.T) {
	dir := testutil.NewDataDir(t, map[string]string{"glossary.csv": testutil.GlossaryCSV()})
	v := newTestValidator(t)

	report, err := v.ValidateDir(dir)
	require.NoError(t, err)
	require.Len(t, report.Files, 3)
	assert.Equal(t, FileResult{Name: IterationSummaryFile, Rows: 2}, report.Files[0])
	assert.Equal(t, FileResult{Name: SuiteProgressFile, Rows: 2}, report.Files[1])
	assert.Equal(t, FileResult{Name: GlossaryFile, Rows: 2}, report.Files[2])

	// Validation is read-only and idempotent.
	again, err := v.ValidateDir(dir)
	require.NoError(t, err)
	assert.Equal(t, report, again)
}

func TestValidateDir_GlossaryOptional(t *testing.T) {
	dir := testutil.NewDataDir(t, nil)

	tables, report, err := newTestValidator(t).LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, report.Files, 2)
	assert.Nil(t, tables.Glossary)
	assert.Equal(t, 2, tables.IterationSummary.Len())
	assert.Equal(t, 2, tables.SuiteProgress.Len())
}

func TestValidateDir_MissingRequired(t *testing.T) {
	dir := testutil.NewDataDir(t, map[string]string{"suite_progress.csv": ""})

	_, err := newTestValidator(t).ValidateDir(dir)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRead))
	assert.Equal(t, RuleMissingRequired, RuleOf(err))
	assert.Contains(t, err.Error(), "suite_progress.csv")
}

func TestValidateDir_UnexpectedFiles(t *testing.T) {
	tests := []struct {
		name string
		file string
		rule string
	}{
		{name: "raw dump", file: "raw_dump.json", rule: RuleUnexpectedFile},
		{name: "stray csv", file: "per_item.csv", rule: RuleUnexpectedFile},
		{name: "dot file", file: ".gitkeep", rule: RuleUnexpectedFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.NewDataDir(t, map[string]string{tt.file: "x"})
			_, err := newTestValidator(t).ValidateDir(dir)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindUnexpectedFile))
			assert.Equal(t, tt.rule, RuleOf(err))
			assert.Contains(t, err.Error(), tt.file)
		})
	}

	t.Run("non-csv directory", func(t *testing.T) {
		dir := testutil.NewDataDir(t, nil)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.d"), 0o750))

		_, err := newTestValidator(t).ValidateDir(dir)
		require.Error(t, err)
		assert.Equal(t, RuleNonCSV, RuleOf(err))
	})

	t.Run("plain subdirectory is allowed", func(t *testing.T) {
		dir := testutil.NewDataDir(t, nil)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o750))

		_, err := newTestValidator(t).ValidateDir(dir)
		assert.NoError(t, err)
	})
}

func TestValidateDir_DirectoryCheckedFirst(t *testing.T) {
	dir := testutil.NewDataDir(t, map[string]string{
		"iter_summary.csv": testutil.IterSummaryCSV("0,2025-01-06,40,2.0,0,0,0,x"),
		"raw_dump.json":    "{}",
	})

	_, err := newTestValidator(t).ValidateDir(dir)
	assert.True(t, IsKind(err, KindUnexpectedFile))
}

func TestValidateDir_IterationSummaryRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
		kind Kind
		col  string
	}{
		{name: "ok_rate zero", row: "0,d,1,0.0,0,0,0,fine"},
		{name: "ok_rate one", row: "0,d,1,1.0,1,1,1,fine"},
		{name: "ok_rate above one", row: "0,d,1,1.0001,0,0,0,fine", kind: KindRange, col: "ok_rate"},
		{name: "AR negative", row: "0,d,1,0.5,-0.1,0,0,fine", kind: KindRange, col: "AR"},
		{name: "AWS not numeric", row: "0,d,1,0.5,0,0,n/a,fine", kind: KindParse, col: "AWS"},
		{name: "ok_rate nan", row: "0,d,1,nan,0,0,0,fine", kind: KindRange, col: "ok_rate"},
		{name: "negative iter", row: "-1,d,1,0.5,0,0,0,fine", kind: KindInvariant, col: "iter"},
		{name: "zero n", row: "0,d,0,0.5,0,0,0,fine", kind: KindInvariant, col: "n"},
		{name: "float n", row: "0,d,3.0,0.5,0,0,0,fine"},
		{name: "iter text", row: "first,d,1,0.5,0,0,0,fine", kind: KindParse, col: "iter"},
		{name: "forbidden notes", row: "0,d,1,0.5,0,0,0,Uses a REGEX", kind: KindContentPolicy, col: "notes"},
		{name: "restricted notes", row: "0,d,1,0.5,0,0,0,doxx slice", kind: KindContentPolicy, col: "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.NewDataDir(t, map[string]string{
				"iter_summary.csv": testutil.IterSummaryCSV(tt.row),
			})
			_, err := newTestValidator(t).ValidateDir(dir)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)

			e, ok := ErrorDetail(err)
			require.True(t, ok)
			assert.Equal(t, IterationSummaryFile, e.File)
			assert.Equal(t, tt.col, e.Column)
			assert.Equal(t, 2, e.Line)
		})
	}
}

func suiteRow(overrides map[string]string) string {
	base := map[string]string{
		"iter": "0", "date_utc": "2025-01-06", "n": "40",
		"mix_ask": "0.3", "mix_answer": "0.5", "mix_refuse": "0.2",
		"suite_version": "v1", "suite_changes": "none", "constraint_level": "1",
		"generation_required": "yes", "format_strictness": "low",
		"refusal_slice_enabled": "no", "token_constraint_enabled": "no",
		"stabilised": "no", "stabilisation_runs": "0", "quality_gate_pass": "no",
		"caveats": "none",
	}
	for k, v := range overrides {
		base[k] = v
	}
	cols := SuiteProgressColumns()
	vals := make([]string, len(cols))
	for i, c := range cols {
		vals[i] = base[c]
	}
	return strings.Join(vals, ",")
}

func TestValidateDir_SuiteProgressRows(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		kind      Kind
		rule      string
		col       string
	}{
		{name: "valid", overrides: nil},
		{name: "mix halves", overrides: map[string]string{"mix_ask": "0.5", "mix_answer": "0.5", "mix_refuse": "0.5"}, kind: KindInvariant, rule: RuleMixSum},
		{name: "mix within tolerance", overrides: map[string]string{"mix_ask": "0.31", "mix_answer": "0.5", "mix_refuse": "0.2"}},
		{name: "mix component out of range", overrides: map[string]string{"mix_ask": "1.2", "mix_answer": "-0.2", "mix_refuse": "0"}, kind: KindRange, col: "mix_ask"},
		{name: "mix parse before range", overrides: map[string]string{"mix_ask": "1.5", "mix_refuse": "x"}, kind: KindParse, col: "mix_refuse"},
		{name: "constraint level zero", overrides: map[string]string{"constraint_level": "0"}, kind: KindInvariant, col: "constraint_level"},
		{name: "flag mixed case", overrides: map[string]string{"stabilised": " YES "}},
		{name: "flag invalid", overrides: map[string]string{"quality_gate_pass": "true"}, kind: KindEnum, rule: RuleYesNo, col: "quality_gate_pass"},
		{name: "strictness upper", overrides: map[string]string{"format_strictness": "HIGH"}},
		{name: "strictness invalid", overrides: map[string]string{"format_strictness": "strict"}, kind: KindEnum, rule: RuleEnum, col: "format_strictness"},
		{name: "negative stabilisation runs", overrides: map[string]string{"stabilisation_runs": "-1"}, kind: KindInvariant, col: "stabilisation_runs"},
		{name: "restricted caveat", overrides: map[string]string{"caveats": "Forged inputs excluded"}, kind: KindContentPolicy},
		{name: "restricted suite change", overrides: map[string]string{"suite_changes": "added MFA items"}, kind: KindContentPolicy, col: "suite_changes"},
		{name: "forbidden version", overrides: map[string]string{"suite_version": "pattern-v2"}, kind: KindContentPolicy, rule: RuleForbiddenCell, col: "suite_version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.NewDataDir(t, map[string]string{
				"suite_progress.csv": testutil.SuiteProgressCSV(suiteRow(tt.overrides)),
			})
			_, err := newTestValidator(t).ValidateDir(dir)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
			if tt.rule != "" {
				assert.Equal(t, tt.rule, RuleOf(err))
			}
			if tt.col != "" {
				e, _ := ErrorDetail(err)
				assert.Equal(t, tt.col, e.Column)
			}
		})
	}
}

func TestValidateDir_RestrictedTermWithoutForbiddenOverlap(t *testing.T) {
	dir := testutil.NewDataDir(t, map[string]string{
		"suite_progress.csv": testutil.SuiteProgressCSV(suiteRow(map[string]string{"caveats": "phishing slice paused"})),
	})

	v := newTestValidator(t)
	policy := v.Policy()
	policy.Forbidden = []string{"regex"}

	_, err := v.WithPolicy(policy).ValidateDir(dir)
	require.Error(t, err)
	assert.Equal(t, RuleRestrictedCell, RuleOf(err))

	e, _ := ErrorDetail(err)
	assert.Equal(t, "caveats", e.Column)
	assert.Equal(t, SuiteProgressFile, e.File)
}

func TestValidateDir_SchemaFailures(t *testing.T) {
	t.Run("reordered iter summary header", func(t *testing.T) {
		header := "date_utc,iter,n,ok_rate,AR,AWI,AWS,notes"
		dir := testutil.NewDataDir(t, map[string]string{
			"iter_summary.csv": testutil.CSV(header, "2025-01-06,0,40,0.5,0,0,0,x"),
		})
		_, err := newTestValidator(t).ValidateDir(dir)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindSchema))
	})

	t.Run("reordered suite header", func(t *testing.T) {
		header := strings.Replace(testutil.SuiteProgressHeader, "mix_ask,mix_answer", "mix_answer,mix_ask", 1)
		dir := testutil.NewDataDir(t, map[string]string{
			"suite_progress.csv": testutil.CSV(header),
		})
		_, err := newTestValidator(t).ValidateDir(dir)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindSchema))
	})

	t.Run("glossary extra column", func(t *testing.T) {
		dir := testutil.NewDataDir(t, map[string]string{
			"glossary.csv": testutil.CSV("key,label,description,owner", "a,b,c,d"),
		})
		_, err := newTestValidator(t).ValidateDir(dir)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindSchema))
		assert.Contains(t, err.Error(), GlossaryFile)
	})

	t.Run("empty file", func(t *testing.T) {
		dir := testutil.NewDataDir(t, nil)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "iter_summary.csv"), nil, 0o600))
		_, err := newTestValidator(t).ValidateDir(dir)
		assert.True(t, IsKind(err, KindSchema))
	})
}

func TestValidateDir_MalformedRow(t *testing.T) {
	dir := testutil.NewDataDir(t, map[string]string{
		"iter_summary.csv": testutil.IterSummaryCSV("0,2025-01-06,40"),
	})
	_, err := newTestValidator(t).ValidateDir(dir)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRead))
	assert.Equal(t, RuleReadFile, RuleOf(err))

	e, _ := ErrorDetail(err)
	assert.Equal(t, 2, e.Line)
}

func TestValidateDir_GlossaryContentOnly(t *testing.T) {
	t.Run("free text passes without semantic checks", func(t *testing.T) {
		dir := testutil.NewDataDir(t, map[string]string{
			"glossary.csv": testutil.GlossaryCSV("n,not a number,anything goes here"),
		})
		_, err := newTestValidator(t).ValidateDir(dir)
		assert.NoError(t, err)
	})

	t.Run("forbidden term fails", func(t *testing.T) {
		dir := testutil.NewDataDir(t, map[string]string{
			"glossary.csv": testutil.GlossaryCSV("cat,Category list,full category list"),
		})
		_, err := newTestValidator(t).ValidateDir(dir)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindContentPolicy))
	})
}

func TestNew_Thresholds(t *testing.T) {
	row := suiteRow(map[string]string{"mix_ask": "0.35"})
	dir := testutil.NewDataDir(t, map[string]string{
		"suite_progress.csv": testutil.SuiteProgressCSV(row),
	})

	_, err := New(Config{}).ValidateDir(dir)
	assert.True(t, IsKind(err, KindInvariant))

	_, err = New(Config{MixTolerance: 0.1}).ValidateDir(dir)
	assert.NoError(t, err)

	short := New(Config{MaxCellLength: 5})
	assert.Equal(t, 5, short.Policy().MaxCellLength)
	_, err = short.ValidateDir(dir)
	assert.Equal(t, RuleCellLength, RuleOf(err))
}
