package dataset

import (
	"errors"
	"fmt"
)

// Dimension identifies a filterable attribute of a flight record.
type Dimension int

const (
	DepartureAirport Dimension = iota
	DepartureCountry
	DepartureContinent
	ArrivalAirport
	ArrivalCountry
	ArrivalContinent
	Airline
	Aircraft
	FlightType
	Distance

	numDimensions
)

// Flight type values reported for the FlightType dimension.
const (
	FlightTypeDomestic      = "domestic"
	FlightTypeInternational = "international"
)

// ErrUnknownDimension is returned when a dimension name cannot be resolved.
var ErrUnknownDimension = errors.New("unknown filter dimension")

var dimensionNames = [numDimensions]string{
	DepartureAirport:   "departure_airport",
	DepartureCountry:   "departure_country",
	DepartureContinent: "departure_continent",
	ArrivalAirport:     "arrival_airport",
	ArrivalCountry:     "arrival_country",
	ArrivalContinent:   "arrival_continent",
	Airline:            "airline",
	Aircraft:           "aircraft",
	FlightType:         "flight_type",
	Distance:           "distance",
}

// Dimensions returns every dimension in declaration order.
func Dimensions() []Dimension {
	dims := make([]Dimension, 0, numDimensions)
	for d := Dimension(0); d < numDimensions; d++ {
		dims = append(dims, d)
	}
	return dims
}

// CategoricalDimensions returns every dimension filtered by a value set,
// i.e. all dimensions except Distance.
func CategoricalDimensions() []Dimension {
	dims := make([]Dimension, 0, numDimensions-1)
	for d := Dimension(0); d < numDimensions; d++ {
		if d != Distance {
			dims = append(dims, d)
		}
	}
	return dims
}

// Valid reports whether d is one of the declared dimensions.
func (d Dimension) Valid() bool {
	return d >= 0 && d < numDimensions
}

// Categorical reports whether the dimension is filtered by a value set.
func (d Dimension) Categorical() bool {
	return d.Valid() && d != Distance
}

// String returns the wire name of the dimension (e.g. "departure_airport").
func (d Dimension) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// ParseDimension resolves a wire name to a Dimension.
func ParseDimension(name string) (Dimension, error) {
	for d, n := range dimensionNames {
		if n == name {
			return Dimension(d), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDimension, name)
}
