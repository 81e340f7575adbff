package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Wide-matrix readers: the first header cell names the observation axis,
// the remaining header cells are feature labels, and every following row is
// one observation label plus its quantification values.

func init() {
	Register("generic-tsv", func(data []byte) (*Table, error) {
		return parseWideMatrix(data, '\t')
	})
	Register("generic-csv", func(data []byte) (*Table, error) {
		return parseWideMatrix(data, ',')
	})
}

func parseWideMatrix(data []byte, sep rune) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1 // raggedness reported with row context below

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("report: reading table: %w", err)
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, fmt.Errorf("%w: need a header with at least one feature column", ErrRagged)
	}

	header := records[0]
	obsAxis := header[0]
	varLabels := header[1:]

	obsLabels := make([]string, 0, len(records)-1)
	x := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", ErrRagged, i+1, len(rec), len(header))
		}
		obsLabels = append(obsLabels, rec[0])

		row := make([]float64, len(varLabels))
		for j, cell := range rec[1:] {
			v, err := parseIntensity(cell)
			if err != nil {
				return nil, fmt.Errorf("report: row %d column %q: %w", i+1, varLabels[j], err)
			}
			row[j] = v
		}
		x = append(x, row)
	}

	return New(x, obsLabels, varLabels, obsAxis, "feature", "", "")
}
