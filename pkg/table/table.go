// Package table loads small delimited metric files into ordered rows.
//
// A Table keeps the header exactly as written so that callers can apply
// order-sensitive schema checks, and keeps rows in file order.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Row is a single record keyed by column name.
type Row struct {
	// Line is the 1-based line in the source file where the record starts.
	Line   int
	Fields map[string]string
}

// Value returns the raw value for column, or "" if the column is absent.
func (r Row) Value(column string) string {
	return r.Fields[column]
}

// Table is a loaded delimited file.
type Table struct {
	Name    string // Base file name, e.g. iter_summary.csv
	Path    string
	Columns []string
	Rows    []Row
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// LoadError reports a file that could not be read or parsed.
type LoadError struct {
	File  string
	Line  int
	Cause error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to read %s: line %d: %v", e.File, e.Line, e.Cause)
	}
	return fmt.Sprintf("failed to read %s: %v", e.File, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Load reads a comma-separated file with a header row.
func Load(path string) (*Table, error) {
	name := filepath.Base(path)
	f, err := os.Open(path) //nolint:gosec // path comes from the configured data directory
	if err != nil {
		return nil, &LoadError{File: name, Cause: err}
	}
	defer func() { _ = f.Close() }()

	t, err := Parse(name, f)
	if err != nil {
		return nil, err
	}
	t.Path = path
	return t, nil
}

// Parse reads delimited content from r. name is used in errors and as Table.Name.
func Parse(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	// Every record must match the header's field count.
	cr.FieldsPerRecord = 0

	t := &Table{Name: name}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return t, nil
	}
	if err != nil {
		return nil, loadErr(name, err)
	}
	t.Columns = append([]string(nil), header...)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadErr(name, err)
		}
		line, _ := cr.FieldPos(0)

		fields := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			// Duplicate header names keep the first occurrence, the schema
			// check rejects such files anyway.
			if _, dup := fields[col]; dup {
				continue
			}
			fields[col] = record[i]
		}
		t.Rows = append(t.Rows, Row{Line: line, Fields: fields})
	}

	return t, nil
}

func loadErr(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &LoadError{File: name, Line: pe.StartLine, Cause: pe.Err}
	}
	return &LoadError{File: name, Cause: err}
}
