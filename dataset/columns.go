package dataset

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is matched by every *MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError reports a column required by a naming convention that
// is absent from the input header.
type MissingColumnError struct {
	Convention string
	Column     string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("dataset: %s convention requires column %q", e.Convention, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Columns maps the logical fields of a FlightRecord to the column names of
// one data-source naming convention.
//
// A convention is picked once at load time. Dimensions missing from
// Dimensions are not carried by the source and cannot be filtered on.
// Metrics missing from Metrics are reported as absent by the Table.
type Columns struct {
	// Name identifies the convention in errors and logs.
	Name string

	// Dimensions maps every carried dimension to its column.
	// Distance may be omitted when coordinates are configured, in which
	// case the great-circle distance is computed at load time.
	Dimensions map[Dimension]string

	// AircraftClass is the optional aircraft class column.
	AircraftClass string

	// Metrics maps every carried metric to its column.
	Metrics map[Metric]string

	// Coordinate columns, all four or none.
	DepartureLon string
	DepartureLat string
	ArrivalLon   string
	ArrivalLat   string

	// ContinentCodes marks continent columns holding two-letter codes
	// ("EU", "NA", ...) to be translated with ContinentName.
	ContinentCodes bool
}

// Dimension columns shared by the compilation based conventions.
var compilationDimensions = map[Dimension]string{
	DepartureAirport:   "iata_departure",
	DepartureCountry:   "departure_country_name",
	DepartureContinent: "departure_continent_name",
	ArrivalAirport:     "iata_arrival",
	ArrivalCountry:     "arrival_country_name",
	ArrivalContinent:   "arrival_continent_name",
	Airline:            "airline_iata",
	Aircraft:           "acft_icao",
	FlightType:         "domestic",
	Distance:           "distance_km",
}

// CompilationColumns is the convention of the compiled flight table used by
// the export view: title-cased metric columns.
var CompilationColumns = Columns{
	Name:          "compilation",
	Dimensions:    compilationDimensions,
	AircraftClass: "acft_class",
	Metrics: map[Metric]string{
		CO2:   "CO2 (kg)",
		ASK:   "ASK",
		Seats: "Seats",
	},
	DepartureLon: "departure_lon",
	DepartureLat: "departure_lat",
	ArrivalLon:   "arrival_lon",
	ArrivalLat:   "arrival_lat",
}

// RawColumns is the preprocessed compilation table with lowercase metric
// columns.
var RawColumns = Columns{
	Name:          "raw",
	Dimensions:    compilationDimensions,
	AircraftClass: "acft_class",
	Metrics: map[Metric]string{
		CO2:   "co2",
		ASK:   "ask",
		Seats: "seats",
	},
	DepartureLon: "departure_lon",
	DepartureLat: "departure_lat",
	ArrivalLon:   "arrival_lon",
	ArrivalLat:   "arrival_lat",
}

// OpenSkyColumns is the flight-count source keyed by ICAO origin and
// destination.
var OpenSkyColumns = Columns{
	Name: "opensky",
	Dimensions: map[Dimension]string{
		DepartureAirport:   "origin",
		DepartureCountry:   "departure_country_name",
		DepartureContinent: "departure_continent_name",
		ArrivalAirport:     "dest",
		ArrivalCountry:     "arrival_country_name",
		ArrivalContinent:   "arrival_continent_name",
		Airline:            "airline_iata",
		Aircraft:           "acft_icao",
		FlightType:         "domestic",
		Distance:           "distance_km",
	},
	AircraftClass: "acft_class",
	Metrics: map[Metric]string{
		CO2:     "co2",
		ASK:     "ask",
		Seats:   "seats",
		Flights: "n_flights",
	},
	DepartureLon: "departure_lon",
	DepartureLat: "departure_lat",
	ArrivalLon:   "arrival_lon",
	ArrivalLat:   "arrival_lat",
}

// Convention returns a predefined naming convention by name.
func Convention(name string) (Columns, error) {
	switch name {
	case CompilationColumns.Name, "":
		return CompilationColumns, nil
	case RawColumns.Name:
		return RawColumns, nil
	case OpenSkyColumns.Name:
		return OpenSkyColumns, nil
	}
	return Columns{}, fmt.Errorf("dataset: unknown column convention %q", name)
}

// HasCoordinates reports whether the convention carries positions.
func (c Columns) HasCoordinates() bool {
	return c.DepartureLon != "" && c.DepartureLat != "" && c.ArrivalLon != "" && c.ArrivalLat != ""
}

// HasDimension reports whether the convention carries dimension d.
// Distance is always carried, either read or computed.
func (c Columns) HasDimension(d Dimension) bool {
	if d == Distance {
		return true
	}
	_, ok := c.Dimensions[d]
	return ok
}

// Column returns the column of dimension d, or "" when not carried.
func (c Columns) Column(d Dimension) string {
	return c.Dimensions[d]
}

// MetricColumn returns the column of metric m, or "" when not carried.
func (c Columns) MetricColumn(m Metric) string {
	return c.Metrics[m]
}

// Required returns the columns the convention reads, in a stable order.
func (c Columns) Required() []string {
	var cols []string
	for _, d := range Dimensions() {
		if col := c.Dimensions[d]; col != "" {
			cols = append(cols, col)
		}
	}
	if c.AircraftClass != "" {
		cols = append(cols, c.AircraftClass)
	}
	for _, m := range AllMetrics() {
		if col := c.Metrics[m]; col != "" {
			cols = append(cols, col)
		}
	}
	if c.HasCoordinates() {
		cols = append(cols, c.DepartureLon, c.DepartureLat, c.ArrivalLon, c.ArrivalLat)
	}
	return cols
}

// Validate checks the convention itself and then that header contains
// every required column. The first missing column is reported.
func (c Columns) Validate(header []string) error {
	if err := c.check(); err != nil {
		return err
	}
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	for _, col := range c.Required() {
		if _, ok := present[col]; !ok {
			return &MissingColumnError{Convention: c.Name, Column: col}
		}
	}
	return nil
}

func (c Columns) check() error {
	if len(c.Metrics) == 0 {
		return fmt.Errorf("dataset: convention %q declares no metric columns", c.Name)
	}
	if c.Dimensions[Distance] == "" && !c.HasCoordinates() {
		return fmt.Errorf("dataset: convention %q needs a distance column or coordinates", c.Name)
	}
	return nil
}
