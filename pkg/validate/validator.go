package validate

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/calmetrics/pkg/table"
)

// Config holds validator configuration.
type Config struct {
	// MixTolerance is the allowed deviation of the mix sum from 1.0 (default 0.02).
	MixTolerance float64
	// MaxCellLength bounds every cell in characters (default 240).
	MaxCellLength int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Validator checks the public metric inputs. It only reads files.
type Validator struct {
	tolerance float64
	policy    Policy
	logger    *slog.Logger
}

// FileResult summarizes one validated file.
type FileResult struct {
	Name string
	Rows int
}

// Report lists the files that passed, in validation order.
type Report struct {
	Dir   string
	Files []FileResult
}

// Tables holds the loaded tables of a successful run. Glossary is nil when
// the optional file is absent.
type Tables struct {
	IterationSummary *table.Table
	SuiteProgress    *table.Table
	Glossary         *table.Table
}

// New creates a validator. Zero thresholds fall back to the defaults.
func New(cfg Config) *Validator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	policy := DefaultPolicy()
	if cfg.MaxCellLength > 0 {
		policy.MaxCellLength = cfg.MaxCellLength
	}

	tolerance := cfg.MixTolerance
	if tolerance <= 0 {
		tolerance = DefaultMixTolerance
	}

	return &Validator{
		tolerance: tolerance,
		policy:    policy,
		logger:    logger,
	}
}

// WithPolicy returns a copy of v using policy instead of the default one.
func (v *Validator) WithPolicy(policy Policy) *Validator {
	c := *v
	c.policy = policy
	return &c
}

// Policy returns the content policy in effect.
func (v *Validator) Policy() Policy {
	return v.policy
}

// ValidateDir validates the input directory: the allow-list first, then the
// required files, then the optional glossary. The first failure is returned.
func (v *Validator) ValidateDir(dir string) (*Report, error) {
	_, report, err := v.LoadDir(dir)
	return report, err
}

// LoadDir is ValidateDir that also returns the validated tables.
func (v *Validator) LoadDir(dir string) (*Tables, *Report, error) {
	v.logger.Debug("checking input directory", slog.String("dir", dir))
	if err := CheckDirectory(dir); err != nil {
		return nil, nil, err
	}

	report := &Report{Dir: dir}
	tables := &Tables{}

	for _, spec := range Specs() {
		path := filepath.Join(dir, spec.Name)
		if !spec.Required {
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				v.logger.Debug("optional file absent", slog.String("file", spec.Name))
				continue
			}
		}

		t, err := v.ValidateFile(path, spec)
		if err != nil {
			return nil, nil, err
		}
		report.Files = append(report.Files, FileResult{Name: spec.Name, Rows: t.Len()})

		switch spec.Name {
		case IterationSummaryFile:
			tables.IterationSummary = t
		case SuiteProgressFile:
			tables.SuiteProgress = t
		case GlossaryFile:
			tables.Glossary = t
		}
	}

	v.logger.Info("input validation passed",
		slog.String("dir", dir),
		slog.Int("files", len(report.Files)))
	return tables, report, nil
}

// ValidateFile loads the file at path and runs spec's checks against it.
func (v *Validator) ValidateFile(path string, spec FileSpec) (*table.Table, error) {
	t, err := table.Load(path)
	if err != nil {
		return nil, loadFailure(spec, err)
	}
	if err := v.ValidateTable(t, spec); err != nil {
		return nil, err
	}
	return t, nil
}

// ValidateTable runs spec's checks against an already loaded table:
// schema, forbidden scan, restricted scan, then per-row checks.
func (v *Validator) ValidateTable(t *table.Table, spec FileSpec) error {
	logger := v.logger.With(slog.String("file", t.Name))

	if err := EnsureColumns(t.Columns, spec.Columns, t.Name); err != nil {
		return err
	}
	if err := v.policy.ScanForbidden(t); err != nil {
		return err
	}
	if len(spec.Restricted) > 0 {
		if err := v.policy.ScanRestricted(t, spec.Restricted); err != nil {
			return err
		}
	}
	if spec.CheckRow != nil {
		for _, row := range t.Rows {
			c := &rowChecker{file: t.Name, row: row, tolerance: v.tolerance}
			spec.CheckRow(c)
			if c.err != nil {
				return c.err
			}
		}
	}

	logger.Debug("file passed", slog.Int("rows", t.Len()))
	return nil
}

func loadFailure(spec FileSpec, err error) error {
	e := &Error{
		Kind:    KindRead,
		Rule:    RuleReadFile,
		File:    spec.Name,
		Message: err.Error(),
		Cause:   err,
	}
	var le *table.LoadError
	if errors.As(err, &le) {
		e.Line = le.Line
		e.Message = le.Cause.Error()
	}
	if errors.Is(err, fs.ErrNotExist) && spec.Required {
		e.Rule = RuleMissingRequired
		e.Message = "required file is missing"
	}
	return e
}
