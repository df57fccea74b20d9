package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// CheckDirectory enforces the input directory allow-list: every regular file
// must be a known input, and no entry may carry an extension other than .csv.
// os.ReadDir sorts by name, so the reported failure is stable.
func CheckDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &Error{
			Kind:    KindRead,
			Rule:    RuleReadDir,
			File:    filepath.Base(dir),
			Message: fmt.Sprintf("cannot list input directory: %v", err),
			Cause:   err,
		}
	}

	allowed := AllowedFiles()
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && !slices.Contains(allowed, name) {
			return &Error{
				Kind:    KindUnexpectedFile,
				Rule:    RuleUnexpectedFile,
				File:    name,
				Message: fmt.Sprintf("unexpected file in input directory %s", dir),
			}
		}
		if ext := suffix(name); ext != "" && ext != ".csv" {
			return &Error{
				Kind:    KindUnexpectedFile,
				Rule:    RuleNonCSV,
				File:    name,
				Message: fmt.Sprintf("unexpected non-CSV entry in input directory %s", dir),
			}
		}
	}
	return nil
}

// suffix is the file extension, treating leading-dot names such as
// ".gitkeep" as having none.
func suffix(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}
