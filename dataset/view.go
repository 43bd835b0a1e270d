package dataset

import (
	"slices"
)

// View is a filtered subset of a Table, identified by row positions into
// the base table. Views never copy or mutate records.
type View struct {
	table *Table
	rows  []int
}

// Table returns the base table the view was taken from.
func (v *View) Table() *Table {
	return v.table
}

// Len returns the number of rows in the view.
func (v *View) Len() int {
	return len(v.rows)
}

// Record returns the i-th record of the view.
func (v *View) Record(i int) *FlightRecord {
	return v.table.Record(v.rows[i])
}

// Rows returns the base-table positions of the view's rows, ascending.
func (v *View) Rows() []int {
	return slices.Clone(v.rows)
}

// Each calls fn for every record in the view, in base-table order.
func (v *View) Each(fn func(*FlightRecord)) {
	for _, i := range v.rows {
		fn(v.table.Record(i))
	}
}

// Filter narrows the view further.
func (v *View) Filter(match func(*FlightRecord) bool) *View {
	rows := make([]int, 0, len(v.rows))
	for _, i := range v.rows {
		if match(v.table.Record(i)) {
			rows = append(rows, i)
		}
	}
	return &View{table: v.table, rows: rows}
}

// Distinct returns the sorted distinct values of dimension d in the view.
// Distance and dimensions the source does not carry yield nil.
func (v *View) Distinct(d Dimension) []string {
	if !d.Categorical() || !v.table.HasDimension(d) {
		return nil
	}
	seen := make(map[string]struct{})
	for _, i := range v.rows {
		seen[v.table.Record(i).Value(d)] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for val := range seen {
		values = append(values, val)
	}
	slices.Sort(values)
	return values
}

// Sum returns the sum of metric m over the view.
func (v *View) Sum(m Metric) float64 {
	var total float64
	for _, i := range v.rows {
		total += v.table.Record(i).Metrics.Get(m)
	}
	return total
}

// Sums returns the sums of every metric over the view.
func (v *View) Sums() Metrics {
	var total Metrics
	for _, i := range v.rows {
		total = total.Add(v.table.Record(i).Metrics)
	}
	return total
}

// Equal reports whether two views select the same rows of the same table.
func (v *View) Equal(other *View) bool {
	return v.table == other.table && slices.Equal(v.rows, other.rows)
}
