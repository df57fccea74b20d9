package dashboard

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/calmetrics/pkg/metrics"
)

// Title is the dashboard page heading.
const Title = "Epistemic Calibration Metrics Dashboard"

// IndexFile is the markdown dashboard file name.
const IndexFile = "index.md"

// titleCase upper-cases the first letter of each word. A Caser is stateful
// and not shared.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// Page is everything the dashboard markdown is rendered from.
type Page struct {
	Snapshot Snapshot
	Trend    Trend
	Glossary []metrics.GlossaryEntry
	// Suites is the full suite history sorted by iteration.
	Suites []metrics.SuiteProgress
	// PlotsPath is the chart directory relative to the dashboard file.
	PlotsPath string
}

func yesNo(v bool) string {
	if v {
		return titleCase("yes")
	}
	return titleCase("no")
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// MixText formats the suite mix as whole percents.
func MixText(s metrics.SuiteProgress) string {
	return fmt.Sprintf("Ask %s / Answer %s / Refuse %s",
		percent(s.MixAsk), percent(s.MixAnswer), percent(s.MixRefuse))
}

// RenderMarkdown renders the dashboard page.
func RenderMarkdown(pg Page) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	plots := pg.PlotsPath
	if plots == "" {
		plots = "../assets/plots"
	}

	sum, suite := pg.Snapshot.Summary, pg.Snapshot.Suite
	line("# " + Title)
	line("")
	line("**Latest snapshot**")
	line("")
	line(fmt.Sprintf("- Iteration: %d", sum.Iter))
	line(fmt.Sprintf("- Date (UTC): %s", sum.Date))
	line(fmt.Sprintf("- Items: %d", sum.N))
	line(fmt.Sprintf("- OK rate: %.3f", sum.OKRate))
	line(fmt.Sprintf("- Suite version: %s", suite.SuiteVersion))
	line(fmt.Sprintf("- Constraint level: %d", suite.ConstraintLevel))
	line(fmt.Sprintf("- Format strictness: %s", titleCase(suite.FormatStrictness)))
	line(fmt.Sprintf("- Mix: %s", MixText(suite)))
	line(fmt.Sprintf("- Stabilised: %s", yesNo(suite.Stabilised)))
	line(fmt.Sprintf("- OK rate trend: %s", pg.Trend))
	line("")

	line("## Progress charts")
	line("")
	for _, c := range []struct{ alt, file string }{
		{"ok rate", OKRateChart},
		{"suite mix", MixOverTimeChart},
		{"suite hardening", SuiteHardeningChart},
		{"quality gates", QualityGatesChart},
	} {
		line(fmt.Sprintf("![%s](%s)", c.alt, path.Join(plots, c.file)))
		line("")
	}

	line("## Suite hardening narrative")
	line("")
	line(historyTable(pg.Suites))
	line("")

	if len(pg.Glossary) > 0 {
		line("## Glossary")
		line("")
		line(glossaryTable(pg.Glossary))
		line("")
	}

	line("## Data policy")
	line("")
	line("No raw prompts, outputs, or per-item logs are published.")
	line("Only aggregated iteration-level metrics are shown.")
	line("")
	line("## How to reproduce")
	line("")
	line("```bash")
	line("calmetrics validate && \\")
	line("  calmetrics build")
	line("```")
	line("")
	line("## Update cadence")
	line("")
	line("Dashboard artefacts are regenerated on every push to main and should be updated")
	b.WriteString("whenever new iteration rows are added to the CSVs.\n")
	return b.String()
}

func historyTable(suites []metrics.SuiteProgress) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"iter", "date_utc", "suite_version", "constraint_level", "suite_changes", "stabilised"})
	for _, s := range suites {
		t.AppendRow(table.Row{
			strconv.FormatInt(s.Iter, 10),
			s.Date,
			s.SuiteVersion,
			strconv.FormatInt(s.ConstraintLevel, 10),
			s.SuiteChanges,
			yesNo(s.Stabilised),
		})
	}
	return t.RenderMarkdown()
}

func glossaryTable(entries []metrics.GlossaryEntry) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"key", "label", "description"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Key, e.Label, e.Description})
	}
	return t.RenderMarkdown()
}
