package catalog

import (
	"github.com/paulmach/orb"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/summary"
)

// Column names shared by the tables.
const (
	ColumnDomestic   = "domestic"
	ColumnClass      = "aircraft_class"
	ColumnDistance   = "distance_km"
	ColumnRoute      = "route"
	ColumnDeparture  = "departure"
	ColumnArrival    = "arrival"
	ColumnAirlines   = "airlines"
	ColumnAircraft   = "aircraft"
	ColumnMetric     = "metric"
	ColumnStart      = "start_km"
	ColumnEnd        = "end_km"
	ColumnValue      = "value"
	ColumnCumulative = "cumulative_pct"
	ColumnDimension  = "dimension"
)

// flightColumns lists the dimensions and metrics the source carries.
func flightColumns(t *dataset.Table) columnSet[*dataset.FlightRecord] {
	var cs columnSet[*dataset.FlightRecord]
	for _, d := range dataset.CategoricalDimensions() {
		if !t.HasDimension(d) {
			continue
		}
		if d == dataset.FlightType {
			cs = append(cs, boolColumn(ColumnDomestic, func(r *dataset.FlightRecord) bool { return r.Domestic }))
			continue
		}
		cs = append(cs, stringColumn(d.String(), func(r *dataset.FlightRecord) string { return r.Value(d) }))
	}
	if t.Columns().AircraftClass != "" {
		cs = append(cs, stringColumn(ColumnClass, func(r *dataset.FlightRecord) string { return r.AircraftClass }))
	}
	cs = append(cs, floatColumn(ColumnDistance, func(r *dataset.FlightRecord) float64 { return r.DistanceKm }))
	for _, m := range t.Metrics() {
		cs = append(cs, floatColumn(m.String(), func(r *dataset.FlightRecord) float64 { return r.Metrics.Get(m) }))
	}
	if t.HasCoordinates() {
		cs = append(cs, routeColumn(ColumnRoute, func(r *dataset.FlightRecord) orb.LineString { return r.Route() }))
	}
	return cs
}

func summaryColumns() columnSet[summary.Row] {
	cs := columnSet[summary.Row]{
		stringColumn("name", func(r summary.Row) string { return r.Name }),
	}
	for _, b := range summary.Bands() {
		cs = append(cs, floatColumn(b.Column(), func(r summary.Row) float64 { return r.Value(b) }))
	}
	return cs
}

func routeColumns(t *dataset.Table) columnSet[*summary.Route] {
	cs := columnSet[*summary.Route]{
		stringColumn(ColumnDeparture, func(r *summary.Route) string { return r.Departure }),
		stringColumn(ColumnArrival, func(r *summary.Route) string { return r.Arrival }),
		stringListColumn(ColumnAirlines, func(r *summary.Route) []string { return r.Airlines }),
		stringListColumn(ColumnAircraft, func(r *summary.Route) []string { return r.Aircraft }),
		floatColumn(ColumnDistance, func(r *summary.Route) float64 { return r.DistanceKm }),
	}
	for _, m := range t.Metrics() {
		cs = append(cs, floatColumn(m.String(), func(r *summary.Route) float64 { return r.Metrics.Get(m) }))
	}
	if t.HasCoordinates() {
		cs = append(cs, routeColumn(ColumnRoute, func(r *summary.Route) orb.LineString { return r.LineString() }))
	}
	return cs
}

type distanceRow struct {
	metric dataset.Metric
	bin    summary.Bin
}

func distanceColumns() columnSet[distanceRow] {
	return columnSet[distanceRow]{
		stringColumn(ColumnMetric, func(r distanceRow) string { return r.metric.String() }),
		floatColumn(ColumnStart, func(r distanceRow) float64 { return r.bin.Start }),
		floatColumn(ColumnEnd, func(r distanceRow) float64 { return r.bin.End }),
		floatColumn(ColumnValue, func(r distanceRow) float64 { return r.bin.Value }),
		floatColumn(ColumnCumulative, func(r distanceRow) float64 { return r.bin.Cumulative }),
	}
}

type optionRow struct {
	dimension dataset.Dimension
	value     string
}

func optionColumns() columnSet[optionRow] {
	return columnSet[optionRow]{
		stringColumn(ColumnDimension, func(r optionRow) string { return r.dimension.String() }),
		stringColumn(ColumnValue, func(r optionRow) string { return r.value }),
	}
}
