// Package engine implements the incremental filter-and-aggregate session
// behind one dashboard: a base flight table, the active filter state, the
// filtered view and the option lists offered for each dimension.
//
// An Engine is not safe for concurrent use. The base table it wraps is
// read-only and may be shared by any number of engines.
package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/filter"
	"github.com/hugr-lab/aeroscope-go/region"
	"github.com/hugr-lab/aeroscope-go/summary"
)

// Engine holds one filter session over a base table.
type Engine struct {
	table   *dataset.Table
	state   *filter.State
	view    *dataset.View
	options map[dataset.Dimension][]string
	changed map[dataset.Dimension]bool
	applied bool
	regions map[dataset.Dimension][]string
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger of the engine. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an engine over table with every dimension at its default.
func New(table *dataset.Table, opts ...Option) *Engine {
	e := &Engine{
		table:  table,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Table returns the base table.
func (e *Engine) Table() *dataset.Table {
	return e.table
}

// Validate reports whether SetFilter would accept the predicate.
func (e *Engine) Validate(d dataset.Dimension, p filter.Predicate) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %v", dataset.ErrUnknownDimension, d)
	}
	if !e.table.HasDimension(d) {
		return fmt.Errorf("%w: %s is not carried by the %s source", dataset.ErrUnknownDimension, d, e.table.Columns().Name)
	}
	return e.state.Clone().Set(d, p)
}

// SetFilter replaces the predicate of one dimension. No other dimension
// changes and nothing is recomputed until Apply.
//
// SetFilter panics if d is unknown or not carried by the source, or if the
// predicate kind does not fit d. Use Validate first for external input.
func (e *Engine) SetFilter(d dataset.Dimension, p filter.Predicate) {
	if err := e.Validate(d, p); err != nil {
		panic(fmt.Sprintf("engine: set filter %v: %v", d, err))
	}
	_ = e.state.Set(d, p)
	if e.applied {
		clear(e.changed)
		e.applied = false
	}
	e.changed[d] = true
	if p.Empty() {
		delete(e.regions, d)
	}
}

// SetSpec sets every predicate named by a wire spec. All predicates are
// validated before any is set.
func (e *Engine) SetSpec(sp filter.Spec) error {
	type update struct {
		d dataset.Dimension
		p filter.Predicate
	}
	var updates []update
	for name, values := range sp.Values {
		d, err := dataset.ParseDimension(name)
		if err != nil {
			return err
		}
		updates = append(updates, update{d, filter.In(values...)})
	}
	if sp.Distance != nil {
		updates = append(updates, update{dataset.Distance, filter.Between(sp.Distance.Min, sp.Distance.Max)})
	}
	for _, u := range updates {
		if err := e.Validate(u.d, u.p); err != nil {
			return err
		}
	}
	for _, u := range updates {
		e.SetFilter(u.d, u.p)
	}
	return nil
}

// Apply recomputes the filtered view from the base table in one pass and
// refreshes the option lists. Dimensions outside the most recent batch of
// SetFilter calls offer their distinct values in the new view. A dimension
// in that batch offers the distinct values in the new view only if its own
// selection is empty; otherwise its options are kept so the selection can
// still be widened. The batch stays current until the next SetFilter, so
// applying again without a change leaves every option list as it was.
func (e *Engine) Apply() *dataset.View {
	e.view = e.state.Apply(e.table)
	for _, d := range dataset.CategoricalDimensions() {
		if !e.table.HasDimension(d) {
			continue
		}
		if e.changed[d] && len(e.state.Values(d)) > 0 {
			continue
		}
		e.options[d] = e.view.Distinct(d)
	}
	e.logger.Debug("Filter applied",
		"source", e.table.Columns().Name,
		"rows", e.view.Len(),
		"active", len(e.state.Active()),
		"changed", len(e.changed))
	e.applied = true
	return e.view
}

// View returns the view computed by the last Apply or Reset.
func (e *Engine) View() *dataset.View {
	return e.view
}

// AvailableOptions returns the values currently offered for dimension d.
// Distance and dimensions the source does not carry have no options.
func (e *Engine) AvailableOptions(d dataset.Dimension) []string {
	return slices.Clone(e.options[d])
}

// State returns a copy of the active filter state.
func (e *Engine) State() *filter.State {
	return e.state.Clone()
}

// ExpandRegion returns the sorted union of the countries of the given
// regional groups.
func (e *Engine) ExpandRegion(labels ...string) ([]string, error) {
	return region.Expand(labels...)
}

// SelectRegions adds every country of the given regional groups to the
// selection of a country dimension. Countries already selected stay
// selected; the selection only grows. Call Apply to recompute the view.
func (e *Engine) SelectRegions(d dataset.Dimension, labels ...string) error {
	if d != dataset.DepartureCountry && d != dataset.ArrivalCountry {
		return fmt.Errorf("engine: %w: regions select countries, not %s", filter.ErrPredicateKind, d)
	}
	if !e.table.HasDimension(d) {
		return fmt.Errorf("%w: %s is not carried by the %s source", dataset.ErrUnknownDimension, d, e.table.Columns().Name)
	}
	countries, err := region.Expand(labels...)
	if err != nil {
		return err
	}
	if len(countries) == 0 {
		return nil
	}

	selected := e.state.Values(d)
	for _, c := range countries {
		if !slices.Contains(selected, c) {
			selected = append(selected, c)
		}
	}
	e.SetFilter(d, filter.In(selected...))

	for _, label := range labels {
		if !slices.Contains(e.regions[d], label) {
			e.regions[d] = append(e.regions[d], label)
		}
	}
	return nil
}

// SelectedRegions returns the regional groups selected on a country
// dimension since it was last cleared.
func (e *Engine) SelectedRegions(d dataset.Dimension) []string {
	return slices.Clone(e.regions[d])
}

// Reset returns every predicate to its default, the view to the rows within
// the default distance interval and every option list to the distinct
// values of that view.
func (e *Engine) Reset() {
	e.state = filter.ForTable(e.table)
	e.view = e.state.Apply(e.table)
	e.changed = make(map[dataset.Dimension]bool)
	e.applied = false
	e.regions = make(map[dataset.Dimension][]string)
	e.options = make(map[dataset.Dimension][]string)
	for _, d := range dataset.CategoricalDimensions() {
		if e.table.HasDimension(d) {
			e.options[d] = e.view.Distinct(d)
		}
	}
}

// Summarize returns the summary table of the current view.
func (e *Engine) Summarize() *summary.Aggregate {
	return summary.Summarize(e.view)
}
