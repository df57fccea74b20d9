// Package dashboard renders the metrics dashboard: four PNG charts and a
// markdown page, optionally mirrored as HTML.
//
// A build validates the input directory first and writes nothing when
// validation or snapshot selection fails.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/calmetrics/pkg/metrics"
	"github.com/leapstack-labs/calmetrics/pkg/validate"
)

// Config holds builder configuration.
type Config struct {
	DataDir      string
	AssetsDir    string
	DashboardDir string
	// HTML also writes index.html next to index.md.
	HTML bool
	// Validator checks the inputs (optional, defaults to validate.New with defaults)
	Validator *validate.Validator
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Builder renders the dashboard from a data directory.
type Builder struct {
	cfg       Config
	validator *validate.Validator
	logger    *slog.Logger
}

// Result describes a finished build.
type Result struct {
	Report   *validate.Report
	Snapshot Snapshot
	Trend    Trend
	// Outputs lists every written file in write order.
	Outputs []string
}

// New creates a builder.
func New(cfg Config) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v := cfg.Validator
	if v == nil {
		v = validate.New(validate.Config{Logger: logger})
	}
	return &Builder{cfg: cfg, validator: v, logger: logger}
}

type inputs struct {
	iters    []metrics.IterationSummary
	suites   []metrics.SuiteProgress
	glossary []metrics.GlossaryEntry
}

func (b *Builder) load() (*validate.Report, *inputs, error) {
	tables, report, err := b.validator.LoadDir(b.cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	iters, err := metrics.DecodeIterationSummary(tables.IterationSummary)
	if err != nil {
		return nil, nil, err
	}
	suites, err := metrics.DecodeSuiteProgress(tables.SuiteProgress)
	if err != nil {
		return nil, nil, err
	}
	metrics.SortByIter(iters)
	metrics.SortByIter(suites)

	return report, &inputs{
		iters:    iters,
		suites:   suites,
		glossary: metrics.DecodeGlossary(tables.Glossary),
	}, nil
}

// Build validates the inputs and writes the charts and dashboard page.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	report, in, err := b.load()
	if err != nil {
		return nil, err
	}

	snap, err := LatestSnapshot(in.iters, in.suites)
	if err != nil {
		return nil, err
	}
	trend, err := OKRateTrend(in.iters)
	if err != nil {
		return nil, err
	}

	plotsDir := PlotsDir(b.cfg.AssetsDir)
	for _, dir := range []string{plotsDir, b.cfg.DashboardDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	res := &Result{Report: report, Snapshot: snap, Trend: trend}

	charts := []struct {
		name   string
		render func(path string) error
	}{
		{OKRateChart, func(p string) error { return RenderOKRate(in.iters, p) }},
		{MixOverTimeChart, func(p string) error { return RenderMixOverTime(in.suites, p) }},
		{SuiteHardeningChart, func(p string) error { return RenderSuiteHardening(in.suites, p) }},
		{QualityGatesChart, func(p string) error { return RenderQualityGates(in.suites, p) }},
	}
	for _, c := range charts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(plotsDir, c.name)
		if err := c.render(path); err != nil {
			return nil, err
		}
		b.logger.Debug("chart written", slog.String("path", path))
		res.Outputs = append(res.Outputs, path)
	}

	md := RenderMarkdown(Page{
		Snapshot:  snap,
		Trend:     trend,
		Glossary:  in.glossary,
		Suites:    in.suites,
		PlotsPath: plotsLink(b.cfg.DashboardDir, plotsDir),
	})
	indexPath := filepath.Join(b.cfg.DashboardDir, IndexFile)
	if err := os.WriteFile(indexPath, []byte(md), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", indexPath, err)
	}
	res.Outputs = append(res.Outputs, indexPath)

	if b.cfg.HTML {
		htmlPath := filepath.Join(b.cfg.DashboardDir, HTMLFile)
		if err := os.WriteFile(htmlPath, RenderHTML(md), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", htmlPath, err)
		}
		res.Outputs = append(res.Outputs, htmlPath)
	}

	b.logger.Info("dashboard built",
		slog.Int64("latest_iter", snap.Summary.Iter),
		slog.Int("outputs", len(res.Outputs)))
	return res, nil
}

// plotsLink is the chart directory as linked from the dashboard page.
func plotsLink(dashboardDir, plotsDir string) string {
	from, err1 := filepath.Abs(dashboardDir)
	to, err2 := filepath.Abs(plotsDir)
	if err1 != nil || err2 != nil {
		return ""
	}
	rel, err := filepath.Rel(from, to)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}
