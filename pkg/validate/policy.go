package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/calmetrics/pkg/table"
)

// DefaultMaxCellLength bounds every cell, counted in characters.
const DefaultMaxCellLength = 240

var (
	forbiddenTerms = []string{
		"prompt",
		"output",
		"outputs.jsonl",
		"jsonl",
		"fail_reason",
		"regex",
		"pattern",
		"token:",
		"must_include",
		"marker",
		"phishing",
		"doxx",
		"mfa",
		"password extraction",
		"forge",
		"category list",
	}

	restrictedTerms = []string{"phishing", "doxx", "mfa", "password extraction", "forge"}
)

// ForbiddenTerms returns the global denylist applied to every header and cell.
func ForbiddenTerms() []string { return slices.Clone(forbiddenTerms) }

// RestrictedTerms returns the stricter denylist applied to narrative columns.
func RestrictedTerms() []string { return slices.Clone(restrictedTerms) }

// Policy is a content policy: substring denylists plus a cell length bound.
// Terms are matched case-insensitively in list order.
type Policy struct {
	Forbidden     []string
	Restricted    []string
	MaxCellLength int
}

// DefaultPolicy returns the published-artifact content policy.
func DefaultPolicy() Policy {
	return Policy{
		Forbidden:     ForbiddenTerms(),
		Restricted:    RestrictedTerms(),
		MaxCellLength: DefaultMaxCellLength,
	}
}

// ScanForbidden checks every column name, then every cell, against the
// forbidden list. Cells longer than MaxCellLength fail regardless of content.
func (p Policy) ScanForbidden(t *table.Table) error {
	forbidden := lowerAll(p.Forbidden)

	for _, col := range t.Columns {
		if term, ok := firstMatch(col, forbidden); ok {
			return &Error{
				Kind:    KindContentPolicy,
				Rule:    RuleForbiddenHeader,
				File:    t.Name,
				Column:  col,
				Header:  true,
				Term:    term,
				Message: fmt.Sprintf("forbidden term %q found in column name", term),
			}
		}
	}

	for _, row := range t.Rows {
		for _, col := range t.Columns {
			text := row.Value(col)
			if p.MaxCellLength > 0 && utf8.RuneCountInString(text) > p.MaxCellLength {
				return &Error{
					Kind:    KindContentPolicy,
					Rule:    RuleCellLength,
					File:    t.Name,
					Column:  col,
					Line:    row.Line,
					Message: fmt.Sprintf("cell exceeds %d characters", p.MaxCellLength),
				}
			}
			if term, ok := firstMatch(text, forbidden); ok {
				return &Error{
					Kind:    KindContentPolicy,
					Rule:    RuleForbiddenCell,
					File:    t.Name,
					Column:  col,
					Line:    row.Line,
					Term:    term,
					Message: fmt.Sprintf("forbidden term %q found in cell", term),
				}
			}
		}
	}
	return nil
}

// ScanRestricted checks the given columns against the restricted list.
// Columns that are not part of the table are skipped.
func (p Policy) ScanRestricted(t *table.Table, columns []string) error {
	restricted := lowerAll(p.Restricted)

	for _, row := range t.Rows {
		for _, col := range columns {
			if term, ok := firstMatch(row.Value(col), restricted); ok {
				return &Error{
					Kind:    KindContentPolicy,
					Rule:    RuleRestrictedCell,
					File:    t.Name,
					Column:  col,
					Line:    row.Line,
					Term:    term,
					Message: fmt.Sprintf("restricted term %q found in narrative cell", term),
				}
			}
		}
	}
	return nil
}

// firstMatch returns the first term (already lowercased) contained in text.
func firstMatch(text string, terms []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if term != "" && strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}
