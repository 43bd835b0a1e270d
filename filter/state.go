package filter

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/hugr-lab/aeroscope-go/dataset"
)

var (
	// ErrPredicateKind is returned when a range is set on a categorical
	// dimension or a value set on distance.
	ErrPredicateKind = errors.New("predicate kind does not fit dimension")

	// ErrInvalidRange is returned for a distance range with min > max or a
	// NaN bound.
	ErrInvalidRange = errors.New("invalid distance range")
)

// State is the set of active predicates, one per dimension.
//
// Categorical dimensions default to the empty value set (no restriction).
// Distance defaults to the bounds the State was created with, normally
// [0, max observed distance]. The zero State is not usable; call NewState.
type State struct {
	bounds   Range
	values   map[dataset.Dimension][]string
	distance *Range
}

// NewState returns a State with every dimension at its default.
func NewState(bounds Range) *State {
	return &State{
		bounds: bounds,
		values: make(map[dataset.Dimension][]string),
	}
}

// ForTable returns a default State for t, bounded by its max distance.
func ForTable(t *dataset.Table) *State {
	return NewState(Range{Min: 0, Max: t.MaxDistance()})
}

// Set replaces the predicate of dimension d. The zero predicate resets d
// to its default. Other dimensions are untouched.
func (s *State) Set(d dataset.Dimension, p Predicate) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %v", dataset.ErrUnknownDimension, d)
	}
	if p.Empty() {
		if d == dataset.Distance {
			s.distance = nil
		} else {
			delete(s.values, d)
		}
		return nil
	}

	if d == dataset.Distance {
		r, ok := p.Range()
		if !ok {
			return fmt.Errorf("%w: %s needs a range, got %v", ErrPredicateKind, d, p)
		}
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
			return fmt.Errorf("%w: %v", ErrInvalidRange, r)
		}
		s.distance = &r
		return nil
	}

	if p.IsRange() {
		return fmt.Errorf("%w: %s needs a value set, got %v", ErrPredicateKind, d, p)
	}
	s.values[d] = p.Values()
	return nil
}

// Predicate returns the current predicate of d.
func (s *State) Predicate(d dataset.Dimension) Predicate {
	if d == dataset.Distance {
		return Between(s.Distance().Min, s.Distance().Max)
	}
	return In(s.values[d]...)
}

// Values returns the selected values of a categorical dimension, nil when
// unrestricted.
func (s *State) Values(d dataset.Dimension) []string {
	return slices.Clone(s.values[d])
}

// Distance returns the active distance interval.
func (s *State) Distance() Range {
	if s.distance != nil {
		return *s.distance
	}
	return s.bounds
}

// Bounds returns the default distance interval.
func (s *State) Bounds() Range {
	return s.bounds
}

// Active returns the dimensions whose predicate differs from the default,
// in declaration order.
func (s *State) Active() []dataset.Dimension {
	var dims []dataset.Dimension
	for _, d := range dataset.Dimensions() {
		if d == dataset.Distance {
			if s.distance != nil {
				dims = append(dims, d)
			}
			continue
		}
		if len(s.values[d]) > 0 {
			dims = append(dims, d)
		}
	}
	return dims
}

// IsDefault reports whether no dimension is restricted.
func (s *State) IsDefault() bool {
	return s.distance == nil && len(s.values) == 0
}

// Match reports whether r satisfies every predicate.
//
// The distance interval is always applied, the default bounds included, so
// a row without a distance never matches.
func (s *State) Match(r *dataset.FlightRecord) bool {
	if !s.Distance().Contains(r.DistanceKm) {
		return false
	}
	for d, vs := range s.values {
		if !slices.Contains(vs, r.Value(d)) {
			return false
		}
	}
	return true
}

// Apply filters t in one pass over the base table.
func (s *State) Apply(t *dataset.Table) *dataset.View {
	return t.Filter(s.matcher())
}

// matcher builds a set based predicate for large selections.
func (s *State) matcher() func(*dataset.FlightRecord) bool {
	type dimSet struct {
		d   dataset.Dimension
		set map[string]struct{}
	}
	sets := make([]dimSet, 0, len(s.values))
	for _, d := range dataset.CategoricalDimensions() {
		vs, ok := s.values[d]
		if !ok {
			continue
		}
		set := make(map[string]struct{}, len(vs))
		for _, v := range vs {
			set[v] = struct{}{}
		}
		sets = append(sets, dimSet{d: d, set: set})
	}
	distance := s.Distance()
	return func(r *dataset.FlightRecord) bool {
		if !distance.Contains(r.DistanceKm) {
			return false
		}
		for _, ds := range sets {
			if _, ok := ds.set[r.Value(ds.d)]; !ok {
				return false
			}
		}
		return true
	}
}

// Without returns a copy of s with dimension d reset to its default.
func (s *State) Without(d dataset.Dimension) *State {
	c := s.Clone()
	_ = c.Set(d, Predicate{})
	return c
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := &State{
		bounds: s.bounds,
		values: make(map[dataset.Dimension][]string, len(s.values)),
	}
	for d, vs := range s.values {
		c.values[d] = slices.Clone(vs)
	}
	if s.distance != nil {
		r := *s.distance
		c.distance = &r
	}
	return c
}

// Reset returns every dimension to its default.
func (s *State) Reset() {
	s.values = make(map[dataset.Dimension][]string)
	s.distance = nil
}

// Equal reports whether two states select with the same predicates.
// Value order is not significant.
func (s *State) Equal(other *State) bool {
	if s.bounds != other.bounds || s.Distance() != other.Distance() {
		return false
	}
	return maps.EqualFunc(s.values, other.values, func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for _, v := range a {
			if !slices.Contains(b, v) {
				return false
			}
		}
		return true
	})
}
