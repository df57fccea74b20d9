package dashboard

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/leapstack-labs/calmetrics/pkg/metrics"
)

// Chart file names under the plots directory.
const (
	OKRateChart         = "ok_rate.png"
	MixOverTimeChart    = "mix_over_time.png"
	SuiteHardeningChart = "suite_hardening.png"
	QualityGatesChart   = "quality_gates.png"
)

// ChartFiles returns the chart file names in render order.
func ChartFiles() []string {
	return []string{OKRateChart, MixOverTimeChart, SuiteHardeningChart, QualityGatesChart}
}

// PlotsDir is the directory charts are written to inside assetsDir.
func PlotsDir(assetsDir string) string {
	return filepath.Join(assetsDir, "plots")
}

const (
	chartWidth  = 6.4 * vg.Inch
	chartHeight = 4.8 * vg.Inch
	unitYMax    = 1.05
)

var strictnessGlyphs = []struct {
	level string
	shape draw.GlyphDrawer
}{
	{"low", draw.CircleGlyph{}},
	{"med", draw.SquareGlyph{}},
	{"high", draw.TriangleGlyph{}},
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.Left = true
	return p
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RenderOKRate draws ok_rate against iteration as a line with markers.
func RenderOKRate(rows []metrics.IterationSummary, path string) error {
	p := newPlot("Overall OK Rate", "Iteration", "OK Rate")

	pts := make(plotter.XYs, len(rows))
	for i, r := range rows {
		pts[i].X = float64(r.Iter)
		pts[i].Y = r.OKRate
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("ok rate series: %w", err)
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	p.Y.Min, p.Y.Max = 0, unitYMax
	return save(p, path)
}

// RenderMixOverTime draws the ask/answer/refuse proportions as stacked areas.
func RenderMixOverTime(rows []metrics.SuiteProgress, path string) error {
	p := newPlot("Suite Mix Over Time", "Iteration", "Mix")

	layers := []struct {
		label string
		value func(metrics.SuiteProgress) float64
	}{
		{"Ask", func(r metrics.SuiteProgress) float64 { return r.MixAsk }},
		{"Answer", func(r metrics.SuiteProgress) float64 { return r.MixAnswer }},
		{"Refuse", func(r metrics.SuiteProgress) float64 { return r.MixRefuse }},
	}

	base := make([]float64, len(rows))
	for i, layer := range layers {
		// Outline: the lower boundary left to right, then the upper one back.
		outline := make(plotter.XYs, 0, 2*len(rows))
		top := make([]float64, len(rows))
		for j, r := range rows {
			top[j] = base[j] + layer.value(r)
			outline = append(outline, plotter.XY{X: float64(r.Iter), Y: base[j]})
		}
		for j := len(rows) - 1; j >= 0; j-- {
			outline = append(outline, plotter.XY{X: float64(rows[j].Iter), Y: top[j]})
		}

		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return fmt.Errorf("mix layer %s: %w", layer.label, err)
		}
		poly.Color = plotutil.Color(i)
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add(layer.label, poly)
		base = top
	}

	p.Y.Min, p.Y.Max = 0, unitYMax
	return save(p, path)
}

// RenderSuiteHardening draws constraint_level per iteration, overlaid with a
// marker per format strictness level.
func RenderSuiteHardening(rows []metrics.SuiteProgress, path string) error {
	p := newPlot("Suite Hardening", "Iteration", "Constraint Level")

	pts := make(plotter.XYs, len(rows))
	var maxLevel float64
	for i, r := range rows {
		pts[i].X = float64(r.Iter)
		pts[i].Y = float64(r.ConstraintLevel)
		maxLevel = max(maxLevel, pts[i].Y)
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("constraint level series: %w", err)
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.Legend.Add("Constraint level", line, points)

	for i, g := range strictnessGlyphs {
		var subset plotter.XYs
		for _, r := range rows {
			if r.FormatStrictness == g.level {
				subset = append(subset, plotter.XY{X: float64(r.Iter), Y: float64(r.ConstraintLevel)})
			}
		}
		if len(subset) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(subset)
		if err != nil {
			return fmt.Errorf("strictness %s series: %w", g.level, err)
		}
		sc.Shape = g.shape
		sc.Color = plotutil.Color(i + 1)
		sc.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add("Format strictness: "+g.level, sc)
	}

	p.Y.Min, p.Y.Max = 0, maxLevel+1
	return save(p, path)
}

// RenderQualityGates draws stabilisation_runs as bars with a marker at the
// top of the chart for every stabilised iteration.
func RenderQualityGates(rows []metrics.SuiteProgress, path string) error {
	p := newPlot("Quality Gates", "Iteration", "Runs")

	var maxRuns float64
	for i, r := range rows {
		runs := float64(r.StabilisationRuns)
		maxRuns = max(maxRuns, runs)

		// One chart per bar so bars sit on their iteration even when
		// iterations are not contiguous.
		bar, err := plotter.NewBarChart(plotter.Values{runs}, vg.Points(18))
		if err != nil {
			return fmt.Errorf("stabilisation runs bar: %w", err)
		}
		bar.XMin = float64(r.Iter)
		bar.Color = plotutil.Color(0)
		bar.LineStyle.Width = 0
		p.Add(bar)
		if i == 0 {
			p.Legend.Add("Stabilisation runs", bar)
		}
	}

	markerHeight := max(maxRuns, 1)
	marks := make(plotter.XYs, len(rows))
	for i, r := range rows {
		marks[i].X = float64(r.Iter)
		if r.Stabilised {
			marks[i].Y = markerHeight
		}
	}
	sc, err := plotter.NewScatter(marks)
	if err != nil {
		return fmt.Errorf("stabilised series: %w", err)
	}
	sc.Shape = diamondGlyph{}
	sc.Color = plotutil.Color(1)
	sc.Radius = vg.Points(4)
	p.Add(sc)
	p.Legend.Add("Stabilised", sc)

	p.Y.Min, p.Y.Max = 0, markerHeight+1
	return save(p, path)
}

// diamondGlyph is a filled square rotated by 45 degrees.
type diamondGlyph struct{}

func (diamondGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.SetColor(sty.Color)
	r := sty.Radius
	var path vg.Path
	path.Move(vg.Point{X: pt.X, Y: pt.Y + r})
	path.Line(vg.Point{X: pt.X + r, Y: pt.Y})
	path.Line(vg.Point{X: pt.X, Y: pt.Y - r})
	path.Line(vg.Point{X: pt.X - r, Y: pt.Y})
	path.Close()
	c.Fill(path)
}
