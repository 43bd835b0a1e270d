package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/summary"
)

// Table names of every DataSource.
const (
	FlightsTable  = "flights"
	SummaryTable  = "summary"
	RoutesTable   = "routes"
	DistanceTable = "distance"
	OptionsTable  = "options"
)

// TableNames returns the table names of a DataSource in listing order.
func TableNames() []string {
	return []string{FlightsTable, SummaryTable, RoutesTable, DistanceTable, OptionsTable}
}

// DataSource is a Source over one immutable base table.
type DataSource struct {
	name    string
	comment string
	data    *dataset.Table
	tables  []Table
	logger  *slog.Logger
}

// NewDataSource creates the source and its tables.
// If logger is nil, slog.Default() is used.
func NewDataSource(name, comment string, data *dataset.Table, logger *slog.Logger) *DataSource {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DataSource{
		name:    name,
		comment: comment,
		data:    data,
		logger:  logger,
	}
	s.tables = []Table{
		newTable(s, FlightsTable, "Filtered flight rows", flightColumns(data), s.scanFlights),
		newTable(s, SummaryTable, "Summary by range band", summaryColumns(), s.scanSummary),
		newTable(s, RoutesTable, "Origin-destination routes", routeColumns(data), s.scanRoutes),
		newTable(s, DistanceTable, "Distance histogram per metric", distanceColumns(), s.scanDistance),
		newTable(s, OptionsTable, "Values each dimension can take", optionColumns(), s.scanOptions),
	}
	return s
}

// Name implements Source interface.
func (s *DataSource) Name() string {
	return s.name
}

// Comment implements Source interface.
func (s *DataSource) Comment() string {
	return s.comment
}

// Data implements Source interface.
func (s *DataSource) Data() *dataset.Table {
	return s.data
}

// Tables implements Source interface.
func (s *DataSource) Tables(ctx context.Context) ([]Table, error) {
	return append([]Table(nil), s.tables...), nil
}

// Table implements Source interface.
func (s *DataSource) Table(ctx context.Context, name string) (Table, error) {
	for _, t := range s.tables {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, nil // Not found, not an error
}

// newTable creates a StaticTable whose scan projects cs.
func newTable[T any](s *DataSource, name, comment string, cs columnSet[T], scan func(ctx context.Context, opts *ScanOptions, cs columnSet[T]) (array.RecordReader, error)) *StaticTable {
	return NewStaticTable(name, comment, cs.schema(), func(ctx context.Context, opts *ScanOptions) (array.RecordReader, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reader, err := scan(ctx, opts, cs.project(opts.columns()))
		if err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", s.name, name, err)
		}
		return reader, nil
	})
}

func (s *DataSource) scanFlights(ctx context.Context, opts *ScanOptions, cs columnSet[*dataset.FlightRecord]) (array.RecordReader, error) {
	view := opts.view(s.data)
	n := opts.limit(view.Len())
	s.logger.Debug("Scanning flights", "source", s.name, "rows", n)
	return cs.read(ctx, opts.allocator(), n, opts.batchSize(), view.Record)
}

func (s *DataSource) scanSummary(ctx context.Context, opts *ScanOptions, cs columnSet[summary.Row]) (array.RecordReader, error) {
	agg := summary.Summarize(opts.view(s.data))
	return cs.read(ctx, opts.allocator(), len(agg.Rows), opts.batchSize(), func(i int) summary.Row {
		return agg.Rows[i]
	})
}

func (s *DataSource) scanRoutes(ctx context.Context, opts *ScanOptions, cs columnSet[*summary.Route]) (array.RecordReader, error) {
	routes := summary.Routes(opts.view(s.data))
	n := opts.limit(len(routes))
	s.logger.Debug("Scanning routes", "source", s.name, "routes", len(routes), "rows", n)
	return cs.read(ctx, opts.allocator(), n, opts.batchSize(), func(i int) *summary.Route {
		return &routes[i]
	})
}

func (s *DataSource) scanDistance(ctx context.Context, opts *ScanOptions, cs columnSet[distanceRow]) (array.RecordReader, error) {
	view := opts.view(s.data)
	var rows []distanceRow
	for _, m := range s.data.Metrics() {
		for _, b := range summary.Histogram(view, m, opts.binWidth()) {
			rows = append(rows, distanceRow{metric: m, bin: b})
		}
	}
	return cs.read(ctx, opts.allocator(), len(rows), opts.batchSize(), func(i int) distanceRow {
		return rows[i]
	})
}

func (s *DataSource) scanOptions(ctx context.Context, opts *ScanOptions, cs columnSet[optionRow]) (array.RecordReader, error) {
	var rows []optionRow
	for _, d := range dataset.CategoricalDimensions() {
		if !s.data.HasDimension(d) {
			continue
		}
		for _, v := range s.options(opts, d) {
			rows = append(rows, optionRow{dimension: d, value: v})
		}
	}
	return cs.read(ctx, opts.allocator(), len(rows), opts.batchSize(), func(i int) optionRow {
		return rows[i]
	})
}

// options returns the values offered for d. A session reports its own
// option lists; otherwise each dimension is computed from all the other
// predicates.
func (s *DataSource) options(opts *ScanOptions, d dataset.Dimension) []string {
	if opts != nil && opts.Session != nil {
		return opts.Session.AvailableOptions(d)
	}
	return opts.state(s.data).Without(d).Apply(s.data).Distinct(d)
}
