package summary

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// CSVHeader is the header row of the summary CSV.
var CSVHeader = []string{"name", "val", "sr", "mr", "lr"}

// WriteCSV writes the table as CSV: the header row, then one row per
// metric. Undefined values are written as NaN.
func (a *Aggregate) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("summary: write header: %w", err)
	}
	record := make([]string, len(CSVHeader))
	for _, r := range a.Rows {
		record[0] = r.Name
		for b, v := range r.Values {
			record[b+1] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("summary: write row %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a summary table written by WriteCSV.
func ReadCSV(r io.Reader) (*Aggregate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("summary: read header: %w", err)
	}
	for i, h := range CSVHeader {
		if header[i] != h {
			return nil, fmt.Errorf("summary: unexpected header column %d: %q, want %q", i, header[i], h)
		}
	}

	agg := &Aggregate{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("summary: read row: %w", err)
		}
		row := Row{Name: record[0]}
		for b := range row.Values {
			v, err := strconv.ParseFloat(record[b+1], 64)
			if err != nil {
				return nil, fmt.Errorf("summary: row %q column %s: %w", row.Name, Band(b).Column(), err)
			}
			row.Values[b] = v
		}
		agg.Rows = append(agg.Rows, row)
	}
	return agg, nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
