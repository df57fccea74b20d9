package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ExpectedOutputs lists the artifacts a successful build must leave behind.
func ExpectedOutputs(assetsDir, dashboardDir string) []string {
	plots := PlotsDir(assetsDir)
	out := make([]string, 0, len(ChartFiles())+1)
	for _, name := range ChartFiles() {
		out = append(out, filepath.Join(plots, name))
	}
	return append(out, filepath.Join(dashboardDir, IndexFile))
}

// CheckOutputs reports every path that does not exist in a single error.
func CheckOutputs(paths []string) error {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to stat %s: %w", p, err)
			}
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing expected outputs: %s", strings.Join(missing, ", "))
	}
	return nil
}
