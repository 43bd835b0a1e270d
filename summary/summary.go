// Package summary aggregates filtered flight views into the dashboard
// summary table and chart breakdowns.
package summary

import (
	"math"
	"slices"

	"github.com/hugr-lab/aeroscope-go/dataset"
)

// Band is a column of the summary table.
type Band int

const (
	Total Band = iota
	ShortRange
	MediumRange
	LongRange

	numBands
)

// Range band limits in km. Short range is d <= 1500, medium range
// 1500 < d <= 4000, long range d > 4000.
const (
	ShortRangeMaxKm  = 1500
	MediumRangeMaxKm = 4000
)

var bandColumns = [numBands]string{
	Total:       "val",
	ShortRange:  "sr",
	MediumRange: "mr",
	LongRange:   "lr",
}

// Bands returns every column in table order.
func Bands() []Band {
	return []Band{Total, ShortRange, MediumRange, LongRange}
}

// Column returns the CSV column name of the band.
func (b Band) Column() string {
	if b < 0 || b >= numBands {
		return ""
	}
	return bandColumns[b]
}

func (b Band) String() string {
	return b.Column()
}

// BandOf returns the range band of a distance. NaN distances belong to no
// band and only count towards the total.
func BandOf(km float64) (Band, bool) {
	switch {
	case km <= ShortRangeMaxKm:
		return ShortRange, true
	case km <= MediumRangeMaxKm:
		return MediumRange, true
	case km > MediumRangeMaxKm:
		return LongRange, true
	}
	return Total, false
}

// Row names of the summary table.
const (
	RowEnergyPerASK = "Energy (MJ) per ASK"
	sharePrefix     = "Share of world "
)

// Row is one line of the summary table.
type Row struct {
	Name   string
	Values [numBands]float64
}

// Value returns the value in one band.
func (r Row) Value(b Band) float64 {
	return r.Values[b]
}

// Aggregate is the fixed-shape summary table: one row per metric, one
// column per band.
type Aggregate struct {
	Rows []Row
}

// Row looks up a row by name.
func (a *Aggregate) Row(name string) (Row, bool) {
	for _, r := range a.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return Row{}, false
}

// Value returns the value of row name in band b, NaN if the row is absent.
func (a *Aggregate) Value(name string, b Band) float64 {
	r, ok := a.Row(name)
	if !ok {
		return math.NaN()
	}
	return r.Value(b)
}

// Equal compares two aggregates treating NaN as equal to NaN.
func (a *Aggregate) Equal(other *Aggregate) bool {
	if len(a.Rows) != len(other.Rows) {
		return false
	}
	for i, r := range a.Rows {
		o := other.Rows[i]
		if r.Name != o.Name {
			return false
		}
		for b := range r.Values {
			x, y := r.Values[b], o.Values[b]
			if x != y && !(math.IsNaN(x) && math.IsNaN(y)) {
				return false
			}
		}
	}
	return true
}

// PerASKName returns the row name of metric m per ASK.
func PerASKName(m dataset.Metric) string {
	return m.Label() + " per ASK"
}

// ShareName returns the row name of the world share of metric m.
func ShareName(m dataset.Metric) string {
	label := m.Label()
	if m == dataset.CO2 {
		label = "CO2"
	}
	return sharePrefix + label + " (%)"
}

// Summarize computes the summary table of a view. Shares are relative to
// the unfiltered totals of the view's base table. Ratios with a zero
// denominator are NaN. Only metrics the base table carries get rows; the
// per-ASK rows need both CO2 and ASK.
func Summarize(v *dataset.View) *Aggregate {
	var sums [numBands]dataset.Metrics
	v.Each(func(r *dataset.FlightRecord) {
		sums[Total] = sums[Total].Add(r.Metrics)
		if b, ok := BandOf(r.DistanceKm); ok {
			sums[b] = sums[b].Add(r.Metrics)
		}
	})

	table := v.Table()
	rowFor := func(name string, value func(ms dataset.Metrics) float64) Row {
		row := Row{Name: name}
		for b := range sums {
			row.Values[b] = value(sums[b])
		}
		return row
	}

	carried := func(metrics ...dataset.Metric) []dataset.Metric {
		return slices.DeleteFunc(metrics, func(m dataset.Metric) bool {
			return !table.HasMetric(m)
		})
	}

	agg := &Aggregate{}
	for _, m := range carried(dataset.ASK, dataset.CO2, dataset.Seats, dataset.Flights) {
		agg.Rows = append(agg.Rows, rowFor(m.Label(), func(ms dataset.Metrics) float64 {
			return ms.Get(m)
		}))
	}
	if table.HasMetric(dataset.CO2) && table.HasMetric(dataset.ASK) {
		agg.Rows = append(agg.Rows,
			rowFor(PerASKName(dataset.CO2), func(ms dataset.Metrics) float64 {
				return ratio(ms.CO2, ms.ASK)
			}),
			rowFor(RowEnergyPerASK, func(ms dataset.Metrics) float64 {
				return ratio(ms.CO2, ms.ASK) / 3.16 * 44
			}),
		)
	}

	for _, m := range carried(dataset.ASK, dataset.Seats, dataset.CO2, dataset.Flights) {
		world := table.Total(m)
		agg.Rows = append(agg.Rows, rowFor(ShareName(m), func(ms dataset.Metrics) float64 {
			return ratio(ms.Get(m), world) * 100
		}))
	}
	return agg
}

// ratio returns num/den, or NaN when den is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
