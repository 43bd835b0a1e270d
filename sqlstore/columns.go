package sqlstore

import (
	"database/sql"
	"database/sql/driver"
	"math"
	"strings"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/filter"
)

// storedColumn is one column written by Import.
type storedColumn struct {
	name  string
	typ   string
	value func(*dataset.FlightRecord) driver.Value
}

func storedColumns(c dataset.Columns) []storedColumn {
	var cols []storedColumn
	for _, d := range dataset.Dimensions() {
		col := c.Column(d)
		switch {
		case d == dataset.Distance:
			if col == "" {
				col = filter.DistanceColumn
			}
			cols = append(cols, storedColumn{col, "DOUBLE", func(r *dataset.FlightRecord) driver.Value { return r.DistanceKm }})
		case col == "":
		case d == dataset.FlightType:
			cols = append(cols, storedColumn{col, "BOOLEAN", func(r *dataset.FlightRecord) driver.Value { return r.Domestic }})
		default:
			cols = append(cols, storedColumn{col, "VARCHAR", func(r *dataset.FlightRecord) driver.Value { return r.Value(d) }})
		}
	}
	if c.AircraftClass != "" {
		cols = append(cols, storedColumn{c.AircraftClass, "VARCHAR", func(r *dataset.FlightRecord) driver.Value { return r.AircraftClass }})
	}
	for _, m := range dataset.AllMetrics() {
		if col := c.MetricColumn(m); col != "" {
			cols = append(cols, storedColumn{col, "DOUBLE", func(r *dataset.FlightRecord) driver.Value { return r.Metrics.Get(m) }})
		}
	}
	if c.HasCoordinates() {
		cols = append(cols,
			storedColumn{c.DepartureLon, "DOUBLE", func(r *dataset.FlightRecord) driver.Value { return r.Departure.Lon() }},
			storedColumn{c.DepartureLat, "DOUBLE", func(r *dataset.FlightRecord) driver.Value { return r.Departure.Lat() }},
			storedColumn{c.ArrivalLon, "DOUBLE", func(r *dataset.FlightRecord) driver.Value { return r.Arrival.Lon() }},
			storedColumn{c.ArrivalLat, "DOUBLE", func(r *dataset.FlightRecord) driver.Value { return r.Arrival.Lat() }},
		)
	}
	return cols
}

// readField is one selected column of Load.
type readField struct {
	expr   string
	dest   func() any
	assign func(r *dataset.FlightRecord, v any)
}

func stringField(col string, set func(r *dataset.FlightRecord, v string)) readField {
	return readField{
		expr: "CAST(" + filter.QuoteIdentifier(col) + " AS VARCHAR)",
		dest: func() any { return new(sql.NullString) },
		assign: func(r *dataset.FlightRecord, v any) {
			set(r, strings.TrimSpace(v.(*sql.NullString).String))
		},
	}
}

func floatField(col string, set func(r *dataset.FlightRecord, v float64)) readField {
	return readField{
		expr: "TRY_CAST(" + filter.QuoteIdentifier(col) + " AS DOUBLE)",
		dest: func() any { return new(sql.NullFloat64) },
		assign: func(r *dataset.FlightRecord, v any) {
			f := v.(*sql.NullFloat64)
			if !f.Valid {
				set(r, math.NaN())
				return
			}
			set(r, f.Float64)
		},
	}
}

// readFields selects the columns of a convention and maps them onto a
// FlightRecord the way dataset.Load does.
func readFields(c dataset.Columns) []readField {
	continent := func(v string) string {
		if c.ContinentCodes {
			return dataset.ContinentName(v)
		}
		return v
	}
	fill := func(v, unknown string) string {
		if v == "" {
			return unknown
		}
		return v
	}

	var fields []readField
	for _, d := range dataset.Dimensions() {
		col := c.Column(d)
		if col == "" {
			continue
		}
		switch d {
		case dataset.DepartureAirport:
			fields = append(fields, stringField(col, func(r *dataset.FlightRecord, v string) { r.DepartureAirport = v }))
		case dataset.DepartureCountry:
			fields = append(fields, stringField(col, func(r *dataset.FlightRecord, v string) { r.DepartureCountry = v }))
		case dataset.DepartureContinent:
			fields = append(fields, stringField(col, func(r *dataset.FlightRecord, v string) { r.DepartureContinent = continent(v) }))
		case dataset.ArrivalAirport:
			fields = append(fields, stringField(col, func(r *dataset.FlightRecord, v string) { r.ArrivalAirport = v }))
		case dataset.ArrivalCountry:
			fields = append(fields, stringField(col, func(r *dataset.FlightRecord, v string) { r.ArrivalCountry = v }))
		case dataset.ArrivalContinent:
			fields = append(fields, stringField(col, func(r *dataset.FlightRecord, v string) { r.ArrivalContinent = continent(v) }))
		case dataset.Airline:
			fields = append(fields, stringField(col, func(r *dataset.FlightRecord, v string) { r.Airline = fill(v, dataset.UnknownAirline) }))
		case dataset.Aircraft:
			fields = append(fields, stringField(col, func(r *dataset.FlightRecord, v string) { r.Aircraft = fill(v, dataset.UnknownAircraft) }))
		case dataset.FlightType:
			fields = append(fields, readField{
				expr: "COALESCE(TRY_CAST(" + filter.QuoteIdentifier(col) + " AS BOOLEAN), false)",
				dest: func() any { return new(bool) },
				assign: func(r *dataset.FlightRecord, v any) {
					r.Domestic = *v.(*bool)
				},
			})
		case dataset.Distance:
			fields = append(fields, floatField(col, func(r *dataset.FlightRecord, v float64) { r.DistanceKm = v }))
		}
	}
	if c.AircraftClass != "" {
		fields = append(fields, stringField(c.AircraftClass, func(r *dataset.FlightRecord, v string) { r.AircraftClass = fill(v, dataset.UnknownAircraft) }))
	}
	for _, m := range dataset.AllMetrics() {
		if col := c.MetricColumn(m); col != "" {
			fields = append(fields, floatField(col, func(r *dataset.FlightRecord, v float64) {
				if math.IsNaN(v) {
					v = 0
				}
				r.Metrics.Set(m, v)
			}))
		}
	}
	if c.HasCoordinates() {
		fields = append(fields,
			floatField(c.DepartureLon, func(r *dataset.FlightRecord, v float64) { r.Departure[0] = v }),
			floatField(c.DepartureLat, func(r *dataset.FlightRecord, v float64) { r.Departure[1] = v }),
			floatField(c.ArrivalLon, func(r *dataset.FlightRecord, v float64) { r.Arrival[0] = v }),
			floatField(c.ArrivalLat, func(r *dataset.FlightRecord, v float64) { r.Arrival[1] = v }),
		)
	}
	return fields
}
