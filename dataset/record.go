package dataset

import "github.com/paulmach/orb"

// FlightRecord is one row of a base flight table.
// Records are immutable once a Table has been built from them.
type FlightRecord struct {
	DepartureAirport   string
	DepartureCountry   string
	DepartureContinent string
	ArrivalAirport     string
	ArrivalCountry     string
	ArrivalContinent   string
	Airline            string
	Aircraft           string
	AircraftClass      string
	Domestic           bool
	DistanceKm         float64

	// Departure and Arrival are lon/lat positions. They are only meaningful
	// when the owning table reports HasCoordinates.
	Departure orb.Point
	Arrival   orb.Point

	Metrics Metrics
}

// Value returns the categorical value of the record for dimension d.
// Distance has no categorical value and yields an empty string.
func (r *FlightRecord) Value(d Dimension) string {
	switch d {
	case DepartureAirport:
		return r.DepartureAirport
	case DepartureCountry:
		return r.DepartureCountry
	case DepartureContinent:
		return r.DepartureContinent
	case ArrivalAirport:
		return r.ArrivalAirport
	case ArrivalCountry:
		return r.ArrivalCountry
	case ArrivalContinent:
		return r.ArrivalContinent
	case Airline:
		return r.Airline
	case Aircraft:
		return r.Aircraft
	case FlightType:
		if r.Domestic {
			return FlightTypeDomestic
		}
		return FlightTypeInternational
	}
	return ""
}

// Route returns the great-circle segment from departure to arrival.
func (r *FlightRecord) Route() orb.LineString {
	return orb.LineString{r.Departure, r.Arrival}
}
