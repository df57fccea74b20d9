// Package main provides tests for the calmetrics CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/calmetrics/internal/cli"
	"github.com/leapstack-labs/calmetrics/internal/cli/config"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	// Get the absolute path to the sample data directory
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "data")
}

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "calmetrics") {
		t.Errorf("version output should contain 'calmetrics', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	for _, expected := range []string{"validate", "build", "check", "config"} {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestValidateSampleData(t *testing.T) {
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"validate", "--data-dir", testdataDir(t), "--output", "markdown"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	if !strings.Contains(buf.String(), "Public input validation passed.") {
		t.Errorf("validate output should report success, got: %s", buf.String())
	}
}

func TestBuildSampleData(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	tmpDir := t.TempDir()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"check",
		"--data-dir", testdataDir(t),
		"--assets-dir", filepath.Join(tmpDir, "assets"),
		"--dashboard-dir", filepath.Join(tmpDir, "dashboard"),
		"--output", "markdown",
	})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("check command error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "dashboard", "index.md")); err != nil {
		t.Errorf("index.md should exist: %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"unknown-command"})

	err := cmd.Execute()
	if err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
