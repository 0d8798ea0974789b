// Package ingest loads survey exports (CSV, TSV, XLSX or a published
// spreadsheet URL) into a survey.Dataset.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/surveylens/internal/survey"
)

// Options tune how a source is read.
type Options struct {
	// Name labels the dataset; defaults to the file's base name.
	Name string
	// Delimiter overrides CSV delimiter detection.
	Delimiter rune
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex selects an XLSX sheet by 1-based position when SheetName is empty.
	SheetIndex int
}

// Loader reads one source format.
type Loader interface {
	CanLoad(filename string) bool
	Load(r io.Reader, opt Options) (*survey.Dataset, error)
}

var registry []Loader

// Register adds a loader. Loaders registered first are tried first.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no loader accepts the file.
var ErrUnsupported = errors.New("unsupported survey format")

// LoadFile picks a loader by filename and reads path.
func LoadFile(path string, opt Options) (*survey.Dataset, error) {
	l := loaderFor(path)
	if l == nil {
		return nil, fmt.Errorf("%s: %w (want .csv, .tsv or .xlsx)", filepath.Base(path), ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open survey: %w", err)
	}
	defer f.Close()
	if opt.Name == "" {
		opt.Name = filepath.Base(path)
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = delimiterFor(path)
	}
	return l.Load(f, opt)
}

// CanLoad reports whether some registered loader accepts filename.
func CanLoad(filename string) bool { return loaderFor(filename) != nil }

func loaderFor(filename string) Loader {
	for _, l := range registry {
		if l.CanLoad(filename) {
			return l
		}
	}
	return nil
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// fromRows builds a dataset from a header row and data rows. Blank cells
// become missing values; rows with no content at all are dropped.
func fromRows(name string, rows [][]string) (*survey.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no header row", name)
	}
	ds, err := survey.NewDataset(name, headerNames(rows[0]))
	if err != nil {
		return nil, err
	}
	width := len(ds.Fields())
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		if len(row) > width {
			// Trailing cells past the header are only kept if empty.
			if !blankRow(row[width:]) {
				return nil, fmt.Errorf("%s: row %d has %d cells, header has %d", name, i+2, len(row), width)
			}
			row = row[:width]
		}
		vals := make([]survey.Value, len(row))
		for j, cell := range row {
			if strings.TrimSpace(cell) == "" {
				vals[j] = survey.Missing()
			} else {
				vals[j] = survey.Text(cell)
			}
		}
		if err := ds.Append(vals...); err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", name, i+2, err)
		}
	}
	return ds, nil
}

// headerNames trims header cells and makes them unique. Empty names become
// "column_N"; repeats get a " (2)", " (3)" suffix.
func headerNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]bool{}
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		name := h
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s (%d)", h, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
