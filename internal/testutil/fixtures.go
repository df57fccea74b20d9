package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Headers of the known input files.
const (
	IterSummaryHeader   = "iter,date_utc,n,ok_rate,AR,AWI,AWS,notes"
	SuiteProgressHeader = "iter,date_utc,n,mix_ask,mix_answer,mix_refuse,suite_version,suite_changes," +
		"constraint_level,generation_required,format_strictness,refusal_slice_enabled," +
		"token_constraint_enabled,stabilised,stabilisation_runs,quality_gate_pass,caveats"
	GlossaryHeader = "key,label,description"
)

// Valid rows for iterations 0 and 1.
var (
	IterSummaryRows = []string{
		"0,2025-01-06,40,0.850,0.10,0.05,0.00,Baseline run",
		"1,2025-01-13,48,0.917,0.08,0.02,0.00,Tightened formatting checks",
	}
	SuiteProgressRows = []string{
		"0,2025-01-06,40,0.30,0.50,0.20,v0.1,Initial suite,1,no,low,no,no,no,0,no,Small sample",
		"1,2025-01-13,48,0.25,0.50,0.25,v0.2,Added refusal slice,2,yes,med,yes,no,yes,3,yes,None",
	}
	GlossaryRows = []string{
		"AR,Abstain rate,Share of items where the suite abstained",
		"AWI,Answer when ineligible,Share of items answered although a refusal was expected",
	}
)

// CSV joins a header and rows into file content with a trailing newline.
func CSV(header string, rows ...string) string {
	return strings.Join(append([]string{header}, rows...), "\n") + "\n"
}

// IterSummaryCSV returns iter_summary.csv content; no rows means the default rows.
func IterSummaryCSV(rows ...string) string {
	if len(rows) == 0 {
		rows = IterSummaryRows
	}
	return CSV(IterSummaryHeader, rows...)
}

// SuiteProgressCSV returns suite_progress.csv content; no rows means the default rows.
func SuiteProgressCSV(rows ...string) string {
	if len(rows) == 0 {
		rows = SuiteProgressRows
	}
	return CSV(SuiteProgressHeader, rows...)
}

// GlossaryCSV returns glossary.csv content; no rows means the default rows.
func GlossaryCSV(rows ...string) string {
	if len(rows) == 0 {
		rows = GlossaryRows
	}
	return CSV(GlossaryHeader, rows...)
}

// WriteFiles writes name→content pairs into dir.
func WriteFiles(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// NewDataDir creates a temporary input directory holding the valid required
// files, with overrides applied on top. An empty override removes the file.
func NewDataDir(t testing.TB, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"iter_summary.csv":   IterSummaryCSV(),
		"suite_progress.csv": SuiteProgressCSV(),
	}
	for name, content := range overrides {
		if content == "" {
			delete(files, name)
			continue
		}
		files[name] = content
	}
	WriteFiles(t, dir, files)
	return dir
}
