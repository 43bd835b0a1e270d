package summary

import (
	"cmp"
	"math"
	"slices"

	"github.com/hugr-lab/aeroscope-go/dataset"
)

// OtherLabel names the entry folding the values beyond the top N.
const OtherLabel = "Other"

// Share is one slice of a pie breakdown.
type Share struct {
	Name  string  `msgpack:"name"`
	Value float64 `msgpack:"value"`
}

// GroupBy totals metric m per value of dimension d, sorted by descending
// total then by name. With top > 0 only the top entries are kept and the
// remainder is folded into an OtherLabel entry.
func GroupBy(v *dataset.View, d dataset.Dimension, m dataset.Metric, top int) []Share {
	if !d.Categorical() {
		return nil
	}
	return groupShares(v, func(r *dataset.FlightRecord) string { return r.Value(d) }, m, top)
}

// ClassShares totals metric m per aircraft class.
func ClassShares(v *dataset.View, m dataset.Metric) []Share {
	return groupShares(v, func(r *dataset.FlightRecord) string { return r.AircraftClass }, m, 0)
}

func groupShares(v *dataset.View, key func(*dataset.FlightRecord) string, m dataset.Metric, top int) []Share {
	totals := make(map[string]float64)
	v.Each(func(r *dataset.FlightRecord) {
		totals[key(r)] += r.Metrics.Get(m)
	})

	shares := make([]Share, 0, len(totals))
	for name, value := range totals {
		shares = append(shares, Share{Name: name, Value: value})
	}
	slices.SortFunc(shares, func(a, b Share) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if top <= 0 || len(shares) <= top {
		return shares
	}
	var other float64
	for _, s := range shares[top:] {
		other += s.Value
	}
	return append(shares[:top:top], Share{Name: OtherLabel, Value: other})
}

// Bin is one distance bin (Start, End] of a histogram.
type Bin struct {
	Start float64 `msgpack:"start"`
	End   float64 `msgpack:"end"`
	Value float64 `msgpack:"value"`

	// Cumulative is the percentage of the metric with distance <= End.
	Cumulative float64 `msgpack:"cumulative"`
}

// Histogram sums metric m per distance bin of the given width. Bins run
// from 0 to the first multiple of width above the largest distance in the
// view. A distance of exactly 0 falls in the first bin; NaN distances are
// skipped. Cumulative percentages are NaN when the metric sums to zero.
func Histogram(v *dataset.View, m dataset.Metric, width float64) []Bin {
	if width <= 0 || v.Len() == 0 {
		return nil
	}
	var maxKm float64
	v.Each(func(r *dataset.FlightRecord) {
		if r.DistanceKm > maxKm {
			maxKm = r.DistanceKm
		}
	})

	n := int(math.Ceil((math.Floor(maxKm)+width)/width)) - 1
	if n < 1 {
		n = 1
	}
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Start = float64(i) * width
		bins[i].End = float64(i+1) * width
	}

	var total float64
	v.Each(func(r *dataset.FlightRecord) {
		if math.IsNaN(r.DistanceKm) {
			return
		}
		i := binIndex(r.DistanceKm, width)
		if i >= n {
			i = n - 1
		}
		value := r.Metrics.Get(m)
		bins[i].Value += value
		total += value
	})

	var running float64
	for i := range bins {
		running += bins[i].Value
		bins[i].Cumulative = ratio(running, total) * 100
	}
	return bins
}

func binIndex(km, width float64) int {
	if km <= 0 {
		return 0
	}
	return int(math.Ceil(km/width)) - 1
}

// CumulativePoint is the share of a metric flown at or below a distance.
type CumulativePoint struct {
	DistanceKm float64 `msgpack:"distance_km"`
	Percent    float64 `msgpack:"percent"`
}

// Cumulative returns the cumulative distribution of metric m by distance,
// sampled every step km.
func Cumulative(v *dataset.View, m dataset.Metric, step float64) []CumulativePoint {
	bins := Histogram(v, m, step)
	points := make([]CumulativePoint, len(bins))
	for i, b := range bins {
		points[i] = CumulativePoint{DistanceKm: b.End, Percent: b.Cumulative}
	}
	return points
}
