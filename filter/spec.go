package filter

import (
	"fmt"

	"github.com/hugr-lab/aeroscope-go/dataset"
)

// Spec is the wire form of a State, keyed by dimension name.
// It is carried in Flight tickets and action bodies.
type Spec struct {
	Values   map[string][]string `msgpack:"values,omitempty" json:"values,omitempty"`
	Distance *Range              `msgpack:"distance,omitempty" json:"distance,omitempty"`
}

// Empty reports whether the spec restricts nothing.
func (sp Spec) Empty() bool {
	return len(sp.Values) == 0 && sp.Distance == nil
}

// Spec returns the wire form of s. Defaults are omitted.
func (s *State) Spec() Spec {
	var sp Spec
	for _, d := range s.Active() {
		if d == dataset.Distance {
			r := s.Distance()
			sp.Distance = &r
			continue
		}
		if sp.Values == nil {
			sp.Values = make(map[string][]string)
		}
		sp.Values[d.String()] = s.Values(d)
	}
	return sp
}

// Merge sets every predicate named by sp onto s. Dimensions not named keep
// their predicate.
func (s *State) Merge(sp Spec) error {
	for name, values := range sp.Values {
		d, err := dataset.ParseDimension(name)
		if err != nil {
			return err
		}
		if err := s.Set(d, In(values...)); err != nil {
			return err
		}
	}
	if sp.Distance != nil {
		if err := s.Set(dataset.Distance, Between(sp.Distance.Min, sp.Distance.Max)); err != nil {
			return err
		}
	}
	return nil
}

// FromSpec builds a State with the given default bounds from its wire form.
func FromSpec(bounds Range, sp Spec) (*State, error) {
	s := NewState(bounds)
	if err := s.Merge(sp); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return s, nil
}

// ForSpec builds a State over t from its wire form. Every dimension sp
// names must be carried by t.
func ForSpec(t *dataset.Table, sp Spec) (*State, error) {
	for name := range sp.Values {
		d, err := dataset.ParseDimension(name)
		if err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
		if !t.HasDimension(d) {
			return nil, fmt.Errorf("filter: %w: %s is not carried by the %s source", dataset.ErrUnknownDimension, d, t.Columns().Name)
		}
	}
	return FromSpec(ForTable(t).Bounds(), sp)
}
