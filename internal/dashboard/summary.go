package dashboard

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/leapstack-labs/calmetrics/pkg/metrics"
)

var (
	// ErrNoIterations is returned when the iteration summary has no rows.
	ErrNoIterations = errors.New("iteration summary has no rows")
	// ErrNoSuiteRow is returned when the latest iteration has no suite progress row.
	ErrNoSuiteRow = errors.New("no suite progress row for latest iteration")
)

// Snapshot is the latest iteration with its matching suite state.
type Snapshot struct {
	Summary metrics.IterationSummary
	Suite   metrics.SuiteProgress
}

// LatestSnapshot picks the maximum iteration of the summary and the suite
// row with the same iteration.
func LatestSnapshot(iters []metrics.IterationSummary, suites []metrics.SuiteProgress) (Snapshot, error) {
	latest, ok := metrics.LatestIter(iters)
	if !ok {
		return Snapshot{}, ErrNoIterations
	}
	suite, ok := metrics.SuiteForIter(suites, latest.Iter)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: iteration %d", ErrNoSuiteRow, latest.Iter)
	}
	return Snapshot{Summary: latest, Suite: suite}, nil
}

// Trend summarizes ok_rate across iterations.
type Trend struct {
	Count     int
	Mean      float64
	Min       float64
	Max       float64
	FirstIter int64
	// Delta is the latest ok_rate minus the first one.
	Delta float64
}

func (t Trend) String() string {
	return fmt.Sprintf("mean %.3f, min %.3f, max %.3f over %d iterations (%+.3f since iteration %d)",
		t.Mean, t.Min, t.Max, t.Count, t.Delta, t.FirstIter)
}

// OKRateTrend computes the trend of rows sorted by iteration.
func OKRateTrend(rows []metrics.IterationSummary) (Trend, error) {
	if len(rows) == 0 {
		return Trend{}, ErrNoIterations
	}

	data := make(stats.Float64Data, len(rows))
	for i, r := range rows {
		data[i] = r.OKRate
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return Trend{}, fmt.Errorf("ok rate mean: %w", err)
	}
	lo, err := stats.Min(data)
	if err != nil {
		return Trend{}, fmt.Errorf("ok rate min: %w", err)
	}
	hi, err := stats.Max(data)
	if err != nil {
		return Trend{}, fmt.Errorf("ok rate max: %w", err)
	}

	return Trend{
		Count:     len(rows),
		Mean:      mean,
		Min:       lo,
		Max:       hi,
		FirstIter: rows[0].Iter,
		Delta:     data[len(data)-1] - data[0],
	}, nil
}
