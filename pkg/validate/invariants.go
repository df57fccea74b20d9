package validate

import (
	"fmt"
	"math"
)

// DefaultMixTolerance is the allowed deviation of the mix sum from 1.0.
const DefaultMixTolerance = 0.02

// EnsureMixSumsToOne fails if |ask+answer+refuse-1| exceeds tolerance.
func EnsureMixSumsToOne(ask, answer, refuse, tolerance float64, file string) error {
	sum := ask + answer + refuse
	if !(math.Abs(sum-1.0) > tolerance) {
		return nil
	}
	return &Error{
		Kind:    KindInvariant,
		Rule:    RuleMixSum,
		File:    file,
		Column:  "mix_ask+mix_answer+mix_refuse",
		Message: fmt.Sprintf("mix columns must sum to 1.0 ± %g, got %g", tolerance, sum),
	}
}

// EnsureAtLeast fails if v < minimum.
func EnsureAtLeast(v, minimum int64, file, column string) error {
	if v >= minimum {
		return nil
	}
	return &Error{
		Kind:    KindInvariant,
		Rule:    RuleMinimum,
		File:    file,
		Column:  column,
		Message: fmt.Sprintf("must be >= %d, got %d", minimum, v),
	}
}
