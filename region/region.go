// Package region resolves regional groups (EU, OECD, G7, ...) to the
// countries they contain.
package region

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownRegion is returned for a label that names no regional group.
var ErrUnknownRegion = errors.New("unknown regional group")

// Labels returns every group label in display order.
func Labels() []string {
	return slices.Clone(labels)
}

// Members returns the countries of one group.
func Members(label string) ([]string, bool) {
	m, ok := members[label]
	if !ok {
		return nil, false
	}
	return slices.Clone(m), true
}

// Expand returns the sorted union of the member countries of every label.
// No labels yield an empty result.
func Expand(labels ...string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, label := range labels {
		m, ok := members[label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, label)
		}
		for _, country := range m {
			seen[country] = struct{}{}
		}
	}
	countries := make([]string, 0, len(seen))
	for c := range seen {
		countries = append(countries, c)
	}
	slices.Sort(countries)
	return countries, nil
}
