package dataset

import "fmt"

// Metric identifies a numeric measure carried by flight records.
type Metric int

const (
	CO2 Metric = iota
	ASK
	Seats
	Flights

	numMetrics
)

var metricNames = [numMetrics]string{
	CO2:     "co2",
	ASK:     "ask",
	Seats:   "seats",
	Flights: "flights",
}

// Display labels used by the summary table and its CSV export.
var metricLabels = [numMetrics]string{
	CO2:     "CO2 (kg)",
	ASK:     "ASK",
	Seats:   "Seats",
	Flights: "Flights",
}

// AllMetrics returns every metric in declaration order.
func AllMetrics() []Metric {
	return []Metric{CO2, ASK, Seats, Flights}
}

// Valid reports whether m is one of the declared metrics.
func (m Metric) Valid() bool {
	return m >= 0 && m < numMetrics
}

// String returns the wire name of the metric (e.g. "co2").
func (m Metric) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Metric(%d)", int(m))
	}
	return metricNames[m]
}

// Label returns the human readable metric label (e.g. "CO2 (kg)").
func (m Metric) Label() string {
	if !m.Valid() {
		return m.String()
	}
	return metricLabels[m]
}

// ParseMetric resolves a wire name or a display label to a Metric.
func ParseMetric(name string) (Metric, error) {
	for m := Metric(0); m < numMetrics; m++ {
		if metricNames[m] == name || metricLabels[m] == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric: %q", name)
}

// Metrics holds the numeric measures of one flight record.
type Metrics struct {
	CO2     float64
	ASK     float64
	Seats   float64
	Flights float64
}

// Get returns the value of metric m.
func (ms Metrics) Get(m Metric) float64 {
	switch m {
	case CO2:
		return ms.CO2
	case ASK:
		return ms.ASK
	case Seats:
		return ms.Seats
	case Flights:
		return ms.Flights
	}
	return 0
}

// Add returns the element-wise sum of ms and other.
func (ms Metrics) Add(other Metrics) Metrics {
	return Metrics{
		CO2:     ms.CO2 + other.CO2,
		ASK:     ms.ASK + other.ASK,
		Seats:   ms.Seats + other.Seats,
		Flights: ms.Flights + other.Flights,
	}
}

// Set sets the value of metric m.
func (ms *Metrics) Set(m Metric, v float64) {
	switch m {
	case CO2:
		ms.CO2 = v
	case ASK:
		ms.ASK = v
	case Seats:
		ms.Seats = v
	case Flights:
		ms.Flights = v
	}
}
