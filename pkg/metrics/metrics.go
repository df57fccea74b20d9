// Package metrics decodes validated metric tables into typed records.
//
// Decoding assumes the table already passed validation; it still reports
// parse failures so callers never see zero values silently.
package metrics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/calmetrics/pkg/table"
	"github.com/leapstack-labs/calmetrics/pkg/validate"
)

// IterationSummary is one row of iter_summary.csv.
type IterationSummary struct {
	Iter   int64   `json:"iter"`
	Date   string  `json:"date_utc"`
	N      int64   `json:"n"`
	OKRate float64 `json:"ok_rate"`
	AR     float64 `json:"ar"`
	AWI    float64 `json:"awi"`
	AWS    float64 `json:"aws"`
	Notes  string  `json:"notes"`
}

// SuiteProgress is one row of suite_progress.csv.
type SuiteProgress struct {
	Iter                   int64   `json:"iter"`
	Date                   string  `json:"date_utc"`
	N                      int64   `json:"n"`
	MixAsk                 float64 `json:"mix_ask"`
	MixAnswer              float64 `json:"mix_answer"`
	MixRefuse              float64 `json:"mix_refuse"`
	SuiteVersion           string  `json:"suite_version"`
	SuiteChanges           string  `json:"suite_changes"`
	ConstraintLevel        int64   `json:"constraint_level"`
	GenerationRequired     bool    `json:"generation_required"`
	FormatStrictness       string  `json:"format_strictness"`
	RefusalSliceEnabled    bool    `json:"refusal_slice_enabled"`
	TokenConstraintEnabled bool    `json:"token_constraint_enabled"`
	Stabilised             bool    `json:"stabilised"`
	StabilisationRuns      int64   `json:"stabilisation_runs"`
	QualityGatePass        bool    `json:"quality_gate_pass"`
	Caveats                string  `json:"caveats"`
}

// GlossaryEntry is one row of glossary.csv.
type GlossaryEntry struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// decoder reads typed values from a row, keeping the first error.
type decoder struct {
	file string
	row  table.Row
	err  error
}

func (d *decoder) str(col string) string {
	return strings.TrimSpace(d.row.Value(col))
}

func (d *decoder) float(col string) float64 {
	if d.err != nil {
		return 0
	}
	v, err := validate.ParseFloat(d.row.Value(col), d.file, col)
	d.err = err
	return v
}

func (d *decoder) int(col string) int64 {
	if d.err != nil {
		return 0
	}
	v, err := validate.ParseInt(d.row.Value(col), d.file, col)
	d.err = err
	return v
}

func (d *decoder) flag(col string) bool {
	return validate.IsYes(d.row.Value(col))
}

func (d *decoder) done() error {
	if d.err != nil {
		return fmt.Errorf("decode %s line %d: %w", d.file, d.row.Line, d.err)
	}
	return nil
}

// DecodeIterationSummary converts a validated iter_summary.csv table.
func DecodeIterationSummary(t *table.Table) ([]IterationSummary, error) {
	out := make([]IterationSummary, 0, t.Len())
	for _, row := range t.Rows {
		d := &decoder{file: t.Name, row: row}
		rec := IterationSummary{
			Iter:   d.int("iter"),
			Date:   d.str("date_utc"),
			N:      d.int("n"),
			OKRate: d.float("ok_rate"),
			AR:     d.float("AR"),
			AWI:    d.float("AWI"),
			AWS:    d.float("AWS"),
			Notes:  d.str("notes"),
		}
		if err := d.done(); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeSuiteProgress converts a validated suite_progress.csv table.
// Enum values are normalized to lowercase.
func DecodeSuiteProgress(t *table.Table) ([]SuiteProgress, error) {
	out := make([]SuiteProgress, 0, t.Len())
	for _, row := range t.Rows {
		d := &decoder{file: t.Name, row: row}
		rec := SuiteProgress{
			Iter:                   d.int("iter"),
			Date:                   d.str("date_utc"),
			N:                      d.int("n"),
			MixAsk:                 d.float("mix_ask"),
			MixAnswer:              d.float("mix_answer"),
			MixRefuse:              d.float("mix_refuse"),
			SuiteVersion:           d.str("suite_version"),
			SuiteChanges:           d.str("suite_changes"),
			ConstraintLevel:        d.int("constraint_level"),
			GenerationRequired:     d.flag("generation_required"),
			FormatStrictness:       validate.NormalizeEnum(row.Value("format_strictness")),
			RefusalSliceEnabled:    d.flag("refusal_slice_enabled"),
			TokenConstraintEnabled: d.flag("token_constraint_enabled"),
			Stabilised:             d.flag("stabilised"),
			StabilisationRuns:      d.int("stabilisation_runs"),
			QualityGatePass:        d.flag("quality_gate_pass"),
			Caveats:                d.str("caveats"),
		}
		if err := d.done(); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeGlossary converts a validated glossary.csv table. A nil table
// yields no entries.
func DecodeGlossary(t *table.Table) []GlossaryEntry {
	if t == nil {
		return nil
	}
	out := make([]GlossaryEntry, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, GlossaryEntry{
			Key:         strings.TrimSpace(row.Value("key")),
			Label:       strings.TrimSpace(row.Value("label")),
			Description: strings.TrimSpace(row.Value("description")),
		})
	}
	return out
}

// Iterable is implemented by records keyed by iteration.
type Iterable interface {
	IterationSummary | SuiteProgress
}

func iterOf[T Iterable](r T) int64 {
	switch v := any(r).(type) {
	case IterationSummary:
		return v.Iter
	case SuiteProgress:
		return v.Iter
	}
	return 0
}

// SortByIter sorts records by iteration ascending, keeping file order for
// equal iterations.
func SortByIter[T Iterable](records []T) {
	slices.SortStableFunc(records, func(a, b T) int {
		ai, bi := iterOf(a), iterOf(b)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	})
}

// LatestIter returns the record with the maximum iteration. For ties the
// last one in input order wins. ok is false for an empty slice.
func LatestIter(records []IterationSummary) (latest IterationSummary, ok bool) {
	for i, r := range records {
		if i == 0 || r.Iter >= latest.Iter {
			latest = r
			ok = true
		}
	}
	return latest, ok
}

// SuiteForIter returns the suite progress row for iter.
func SuiteForIter(records []SuiteProgress, iter int64) (SuiteProgress, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Iter == iter {
			return records[i], true
		}
	}
	return SuiteProgress{}, false
}
