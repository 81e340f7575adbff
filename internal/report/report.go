// Package report converts tabular proteomics reports into an annotated
// observations-by-features table for downstream spatial analysis.
package report

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

var (
	// ErrUnknownReader indicates no reader is registered under the
	// requested format name.
	ErrUnknownReader = errors.New("report: unknown reader")

	// ErrRagged indicates rows of a report disagree on column count.
	ErrRagged = errors.New("report: rows have inconsistent column counts")

	// ErrUnknownIndex indicates an index promotion referenced a column
	// that does not exist in the frame.
	ErrUnknownIndex = errors.New("report: no such index column")
)

// Frame annotates one axis of a table: an index (row labels) plus any
// number of named metadata columns, all of equal length.
type Frame struct {
	// IndexName names the index; empty for a positional string range.
	IndexName string
	Index     []string
	Columns   map[string][]string
}

// Len returns the number of entries in the frame.
func (f Frame) Len() int { return len(f.Index) }

// Table is an annotated matrix: X holds one row per observation (sample)
// and one column per feature (protein group). Obs annotates rows, Var
// annotates columns.
type Table struct {
	X   [][]float64
	Obs Frame
	Var Frame
}

// NObs returns the number of observations.
func (t *Table) NObs() int { return len(t.X) }

// NVar returns the number of features.
func (t *Table) NVar() int {
	if len(t.X) == 0 {
		return 0
	}
	return len(t.X[0])
}

// New assembles an annotated table from a matrix and per-axis labels.
// obsAxis and varAxis name the label columns (for example "sample" and
// "gene"); labels are stored as frame columns under those names, with a
// positional string range as each frame's index.
//
// obsIndex and varIndex optionally promote a labelled column to be the
// frame index, mirroring the usual dataframe set_index step; pass "" to
// keep the positional index.
func New(x [][]float64, obsLabels, varLabels []string, obsAxis, varAxis, obsIndex, varIndex string) (*Table, error) {
	for i, row := range x {
		if len(row) != len(varLabels) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRagged, i, len(row), len(varLabels))
		}
	}
	if len(x) != len(obsLabels) {
		return nil, fmt.Errorf("%w: %d rows but %d observation labels", ErrRagged, len(x), len(obsLabels))
	}

	obs, err := newFrame(obsLabels, obsAxis, obsIndex)
	if err != nil {
		return nil, err
	}
	vr, err := newFrame(varLabels, varAxis, varIndex)
	if err != nil {
		return nil, err
	}

	return &Table{X: x, Obs: obs, Var: vr}, nil
}

// newFrame builds an axis frame from labels: a positional index with the
// labels as a named column, optionally promoted to the index.
func newFrame(labels []string, axis, promote string) (Frame, error) {
	f := Frame{
		Index:   make([]string, len(labels)),
		Columns: map[string][]string{},
	}
	for i := range labels {
		f.Index[i] = strconv.Itoa(i)
	}
	if axis != "" {
		col := make([]string, len(labels))
		copy(col, labels)
		f.Columns[axis] = col
	}

	if promote == "" {
		return f, nil
	}
	col, ok := f.Columns[promote]
	if !ok {
		return Frame{}, fmt.Errorf("%w: %q", ErrUnknownIndex, promote)
	}
	f.Index = col
	f.IndexName = promote
	delete(f.Columns, promote)
	return f, nil
}

// parseIntensity converts one report cell to a float. Empty cells and the
// usual NA spellings become NaN rather than an error: sparse quantification
// is the norm in proteomics reports.
func parseIntensity(s string) (float64, error) {
	switch s {
	case "", "NA", "NaN", "nan", "#N/A":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ReadFunc parses one report format into an annotated table.
type ReadFunc func(data []byte) (*Table, error)

var registry = map[string]ReadFunc{}

// Register adds a reader under a format name, replacing any previous one.
func Register(name string, fn ReadFunc) {
	registry[name] = fn
}

// Reader returns the reader registered under name.
func Reader(name string) (ReadFunc, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReader, name)
	}
	return fn, nil
}

// AvailableReaders lists registered format names in sorted order.
func AvailableReaders() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
