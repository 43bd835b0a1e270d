package dataset

import (
	"slices"
)

// Table is an immutable base flight table.
// It is safe for concurrent reads; nothing mutates it after NewTable.
type Table struct {
	columns     Columns
	records     []FlightRecord
	metrics     []Metric
	maxDistance float64
	totals      Metrics
}

// NewTable builds a Table from records loaded under the given convention.
// The records slice is copied.
func NewTable(columns Columns, records []FlightRecord) *Table {
	t := &Table{
		columns: columns,
		records: slices.Clone(records),
	}
	for _, m := range AllMetrics() {
		if columns.MetricColumn(m) != "" {
			t.metrics = append(t.metrics, m)
		}
	}
	for i := range t.records {
		r := &t.records[i]
		if r.DistanceKm > t.maxDistance {
			t.maxDistance = r.DistanceKm
		}
		t.totals = t.totals.Add(r.Metrics)
	}
	return t
}

// Columns returns the naming convention the table was loaded with.
func (t *Table) Columns() Columns {
	return t.columns
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Record returns the i-th record. The returned record must not be modified.
func (t *Table) Record(i int) *FlightRecord {
	return &t.records[i]
}

// Metrics returns the metrics carried by the source, in declaration order.
func (t *Table) Metrics() []Metric {
	return slices.Clone(t.metrics)
}

// HasMetric reports whether the source carries metric m.
func (t *Table) HasMetric(m Metric) bool {
	return slices.Contains(t.metrics, m)
}

// HasDimension reports whether the source carries dimension d.
func (t *Table) HasDimension(d Dimension) bool {
	return d.Valid() && t.columns.HasDimension(d)
}

// HasCoordinates reports whether records carry departure/arrival positions.
func (t *Table) HasCoordinates() bool {
	return t.columns.HasCoordinates()
}

// MaxDistance returns the largest observed distance in km.
func (t *Table) MaxDistance() float64 {
	return t.maxDistance
}

// Total returns the unfiltered sum of metric m.
func (t *Table) Total(m Metric) float64 {
	return t.totals.Get(m)
}

// All returns a view over every record.
func (t *Table) All() *View {
	rows := make([]int, len(t.records))
	for i := range rows {
		rows[i] = i
	}
	return &View{table: t, rows: rows}
}

// Filter returns a view of the records for which match returns true.
func (t *Table) Filter(match func(*FlightRecord) bool) *View {
	rows := make([]int, 0, len(t.records)/4)
	for i := range t.records {
		if match(&t.records[i]) {
			rows = append(rows, i)
		}
	}
	return &View{table: t, rows: rows}
}
