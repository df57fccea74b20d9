// Package config provides configuration management for the calmetrics CLI.
//
// Values are layered from defaults, calmetrics.yaml, CALMETRICS_* environment
// variables and explicitly set flags, in increasing priority.
package config

import (
	"github.com/leapstack-labs/calmetrics/pkg/validate"
)

// Config holds all CLI configuration options.
type Config struct {
	DataDir       string  `koanf:"data_dir" yaml:"data_dir" json:"data_dir"`
	AssetsDir     string  `koanf:"assets_dir" yaml:"assets_dir" json:"assets_dir"`
	DashboardDir  string  `koanf:"dashboard_dir" yaml:"dashboard_dir" json:"dashboard_dir"`
	MixTolerance  float64 `koanf:"mix_tolerance" yaml:"mix_tolerance" json:"mix_tolerance"`
	MaxCellLength int     `koanf:"max_cell_length" yaml:"max_cell_length" json:"max_cell_length"`
	LogLevel      string  `koanf:"log_level" yaml:"log_level" json:"log_level"`
	Verbose       bool    `koanf:"verbose" yaml:"verbose" json:"verbose"`
	OutputFormat  string  `koanf:"output" yaml:"output" json:"output"`
	HTML          bool    `koanf:"html" yaml:"html" json:"html"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-" yaml:"project_root" json:"project_root"`
}

// Default configuration values.
const (
	DefaultDataDir       = "data"
	DefaultAssetsDir     = "assets"
	DefaultDashboardDir  = "dashboard"
	DefaultMixTolerance  = validate.DefaultMixTolerance
	DefaultMaxCellLength = validate.DefaultMaxCellLength
	DefaultLogLevel      = "warn"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"calmetrics.yaml", "calmetrics.yml"}

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "CALMETRICS_"

// ValidatorConfig returns the validator settings carried by c.
func (c *Config) ValidatorConfig() validate.Config {
	return validate.Config{
		MixTolerance:  c.MixTolerance,
		MaxCellLength: c.MaxCellLength,
	}
}
