package validate

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Allowed categorical values.
var (
	yesNoValues      = []string{"yes", "no"}
	strictnessValues = []string{"low", "med", "high"}
)

// FormatStrictnessValues returns the allowed format_strictness values.
func FormatStrictnessValues() []string { return slices.Clone(strictnessValues) }

// ParseFloat parses a numeric cell. Surrounding whitespace is ignored.
func ParseFloat(raw, file, column string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &Error{
			Kind:    KindParse,
			Rule:    RuleNumber,
			File:    file,
			Column:  column,
			Message: fmt.Sprintf("must be a number, got %q", raw),
			Cause:   err,
		}
	}
	return v, nil
}

// ParseInt parses an integer cell. Float representations are accepted and
// truncated toward zero ("3.0" and "3.7" both yield 3).
func ParseInt(raw, file, column string) (int64, error) {
	fail := func(cause error) error {
		return &Error{
			Kind:    KindParse,
			Rule:    RuleInteger,
			File:    file,
			Column:  column,
			Message: fmt.Sprintf("must be an integer, got %q", raw),
			Cause:   cause,
		}
	}

	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fail(err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fail(nil)
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, fail(nil)
	}
	return int64(t), nil
}

// EnsureRange fails unless low <= v <= high. NaN is never in range.
func EnsureRange(v, low, high float64, file, column string) error {
	if low <= v && v <= high {
		return nil
	}
	return &Error{
		Kind:    KindRange,
		Rule:    RuleRange,
		File:    file,
		Column:  column,
		Message: fmt.Sprintf("must be between %g and %g, got %g", low, high, v),
	}
}

// NormalizeEnum returns the trimmed, lowercased form of a categorical value.
func NormalizeEnum(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// EnsureEnum fails unless raw, normalized, is one of allowed.
func EnsureEnum(raw string, allowed []string, file, column string) error {
	if slices.Contains(allowed, NormalizeEnum(raw)) {
		return nil
	}
	return &Error{
		Kind:    KindEnum,
		Rule:    RuleEnum,
		File:    file,
		Column:  column,
		Allowed: slices.Clone(allowed),
		Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, "/"), raw),
	}
}

// EnsureYesNo fails unless raw is yes or no in any case.
func EnsureYesNo(raw, file, column string) error {
	err := EnsureEnum(raw, yesNoValues, file, column)
	if e, ok := ErrorDetail(err); ok {
		e.Rule = RuleYesNo
	}
	return err
}

// IsYes reports whether a yes/no flag is set.
func IsYes(raw string) bool {
	return NormalizeEnum(raw) == "yes"
}
