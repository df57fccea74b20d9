package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a stable category of validation failure.
type Kind string

// Validation failure kinds.
const (
	KindSchema         Kind = "schema"
	KindContentPolicy  Kind = "content-policy"
	KindParse          Kind = "parse"
	KindRange          Kind = "range"
	KindEnum           Kind = "enum"
	KindInvariant      Kind = "invariant"
	KindUnexpectedFile Kind = "unexpected-file"
	KindRead           Kind = "read"
)

// Stable rule identifiers. Callers should branch on Kind or Rule, not on
// Error() text.
const (
	RuleColumns         = "schema.columns"
	RuleForbiddenHeader = "content.forbidden_header"
	RuleForbiddenCell   = "content.forbidden_cell"
	RuleCellLength      = "content.cell_length"
	RuleRestrictedCell  = "content.restricted_cell"
	RuleNumber          = "field.number"
	RuleInteger         = "field.integer"
	RuleRange           = "field.range"
	RuleEnum            = "field.enum"
	RuleYesNo           = "field.yes_no"
	RuleMixSum          = "row.mix_sum"
	RuleMinimum         = "row.minimum"
	RuleUnexpectedFile  = "dir.unexpected_file"
	RuleNonCSV          = "dir.non_csv"
	RuleReadFile        = "io.read"
	RuleMissingRequired = "io.missing_required"
	RuleReadDir         = "io.read_dir"
)

// Error is a single validation failure with its location.
type Error struct {
	Kind    Kind
	Rule    string
	File    string
	Column  string
	Line    int  // Source line of the offending row; 0 when not row-specific
	Header  bool // The failure is in a column name rather than a cell
	Term    string
	Allowed []string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if loc := e.Location(); loc != "" {
		b.WriteString(" ")
		b.WriteString(loc)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Location renders file, column and header/row position, e.g.
// "suite_progress.csv.caveats (row at line 3)".
func (e *Error) Location() string {
	loc := e.File
	if e.Column != "" {
		if loc != "" {
			loc += "."
		}
		loc += e.Column
	}
	switch {
	case e.Header:
		loc += " (header)"
	case e.Line > 0:
		loc += fmt.Sprintf(" (row at line %d)", e.Line)
	}
	return loc
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleOf returns the rule of a structured error, or "" if err is not one.
func RuleOf(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Rule
}

// ErrorDetail extracts the *Error from err, if present.
func ErrorDetail(err error) (*Error, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return nil, false
	}
	return e, true
}
