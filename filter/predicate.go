package filter

import (
	"fmt"
	"slices"
)

// Range is an inclusive distance interval in km.
type Range struct {
	Min float64 `msgpack:"min" json:"min"`
	Max float64 `msgpack:"max" json:"max"`
}

// Contains reports whether Min <= v <= Max.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Predicate is the selection of one dimension: either a set of accepted
// values or an inclusive distance range. The zero Predicate is an empty
// value set, which matches everything and clears whatever dimension it is
// set on.
type Predicate struct {
	values []string
	rng    *Range
}

// In returns a value-set predicate. Duplicates are dropped and the order
// of first appearance is kept.
func In(values ...string) Predicate {
	var vs []string
	for _, v := range values {
		if !slices.Contains(vs, v) {
			vs = append(vs, v)
		}
	}
	return Predicate{values: vs}
}

// Between returns a distance-range predicate.
func Between(minKm, maxKm float64) Predicate {
	return Predicate{rng: &Range{Min: minKm, Max: maxKm}}
}

// IsRange reports whether p is a distance-range predicate.
func (p Predicate) IsRange() bool {
	return p.rng != nil
}

// Values returns the accepted values of a value-set predicate.
func (p Predicate) Values() []string {
	return slices.Clone(p.values)
}

// Range returns the interval of a range predicate.
func (p Predicate) Range() (Range, bool) {
	if p.rng == nil {
		return Range{}, false
	}
	return *p.rng, true
}

// Empty reports whether p is an empty value set.
func (p Predicate) Empty() bool {
	return p.rng == nil && len(p.values) == 0
}

func (p Predicate) String() string {
	if p.rng != nil {
		return p.rng.String()
	}
	return fmt.Sprintf("%q", p.values)
}
