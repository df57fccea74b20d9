package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "calmetrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.String("data-dir", "", "data directory")
	flags.String("assets-dir", "", "assets directory")
	flags.String("dashboard-dir", "", "dashboard directory")
	flags.Float64("mix-tolerance", 0, "mix tolerance")
	flags.Int("max-cell-length", 0, "max cell length")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.StringP("output", "o", "", "output format")
	flags.Bool("html", false, "also write HTML")
	return flags
}

// TestLoadConfig_Defaults tests loading with no file, env or flags.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(cwd, DefaultDataDir), cfg.DataDir)
	assert.Equal(t, filepath.Join(cwd, DefaultAssetsDir), cfg.AssetsDir)
	assert.Equal(t, filepath.Join(cwd, DefaultDashboardDir), cfg.DashboardDir)
	assert.InDelta(t, 0.02, cfg.MixTolerance, 1e-12)
	assert.Equal(t, 240, cfg.MaxCellLength)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.HTML)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

// TestLoadConfig_File tests that file values are read and paths resolve
// against the file's directory.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `data_dir: inputs
dashboard_dir: /srv/dashboard
mix_tolerance: 0.05
max_cell_length: 120
output: json
html: true
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	root := filepath.Dir(cfgPath)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(root, "inputs"), cfg.DataDir)
	assert.Equal(t, "/srv/dashboard", cfg.DashboardDir)
	assert.Equal(t, filepath.Join(root, DefaultAssetsDir), cfg.AssetsDir)
	assert.InDelta(t, 0.05, cfg.MixTolerance, 1e-12)
	assert.Equal(t, 120, cfg.MaxCellLength)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.HTML)

	vc := cfg.ValidatorConfig()
	assert.InDelta(t, 0.05, vc.MixTolerance, 1e-12)
	assert.Equal(t, 120, vc.MaxCellLength)
}

// TestLoadConfig_FoundUpward tests that calmetrics.yml is found from a subdirectory.
func TestLoadConfig_FoundUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "calmetrics.yml"), []byte("data_dir: metrics\n"), 0600))
	sub := filepath.Join(root, "dashboard", "nested")
	require.NoError(t, os.MkdirAll(sub, 0750))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	// Resolve symlinks (macOS temp dirs live under /private).
	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
	assert.Equal(t, "metrics", filepath.Base(cfg.DataDir))
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "data_dir: from_file\nmix_tolerance: 0.03\n")
	t.Setenv("CALMETRICS_DATA_DIR", "from_env")
	t.Setenv("CALMETRICS_MIX_TOLERANCE", "0.04")

	flags := testFlags()
	require.NoError(t, flags.Set("data-dir", "from_flag"))
	require.NoError(t, flags.Set("mix-tolerance", "0.1"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	// Flag paths resolve against the working directory.
	want, err := filepath.Abs("from_flag")
	require.NoError(t, err)
	assert.Equal(t, want, cfg.DataDir, "flag value should override config file and env var")
	assert.InDelta(t, 0.1, cfg.MixTolerance, 1e-12)
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "data_dir: from_file\nmax_cell_length: 100\n")
	t.Setenv("CALMETRICS_DATA_DIR", "from_env")
	t.Setenv("CALMETRICS_MAX_CELL_LENGTH", "80")
	t.Setenv("CALMETRICS_VERBOSE", "true")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "from_env"), cfg.DataDir, "env var should override config file")
	assert.Equal(t, 80, cfg.MaxCellLength)
	assert.True(t, cfg.Verbose)
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: text\n")
	t.Setenv("CALMETRICS_OUTPUT", "markdown")

	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat, "env var should be used when flag is not set")
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "malformed yaml", content: "data_dir: [unclosed\n", errSubstr: "error reading config file"},
		{name: "zero tolerance", content: "mix_tolerance: 0\n", errSubstr: "mix_tolerance"},
		{name: "negative cell length", content: "max_cell_length: -1\n", errSubstr: "max_cell_length"},
		{name: "unknown output", content: "output: yaml\n", errSubstr: "unknown output format"},
		{name: "unknown log level", content: "log_level: loud\n", errSubstr: "unknown log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
	})
}

// TestConfig_Validate tests the Config.Validate method.
func TestConfig_Validate(t *testing.T) {
	valid := Config{DataDir: "data", MixTolerance: 0.02, MaxCellLength: 240, OutputFormat: "auto", LogLevel: "warn"}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty data_dir", func(t *testing.T) {
		cfg := valid
		cfg.DataDir = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data_dir is required")
	})

	t.Run("tolerance of one", func(t *testing.T) {
		cfg := valid
		cfg.MixTolerance = 1
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_ValidateDirectories(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{DataDir: dir}
	assert.NoError(t, cfg.ValidateDirectories())

	cfg.DataDir = filepath.Join(dir, "missing")
	err := cfg.ValidateDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--data-dir")

	file := filepath.Join(dir, "iter_summary.csv")
	require.NoError(t, os.WriteFile(file, nil, 0600))
	cfg.DataDir = file
	assert.ErrorContains(t, cfg.ValidateDirectories(), "not a directory")
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&Config{}).Level())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "INFO"}).Level())
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "error", Verbose: true}).Level())
}

func TestLogger_Context(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler).With("run_id", "x")
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
