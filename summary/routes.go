package summary

import (
	"cmp"
	"slices"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/paulmach/orb"
)

// Route aggregates every flight between one origin and one destination.
type Route struct {
	Departure string
	Arrival   string
	Metrics   dataset.Metrics
	Airlines  []string
	Aircraft  []string

	// DistanceKm and the positions come from the first flight seen on the
	// route.
	DistanceKm float64
	From       orb.Point
	To         orb.Point
}

// LineString returns the route geometry.
func (r *Route) LineString() orb.LineString {
	return orb.LineString{r.From, r.To}
}

// Routes aggregates a view by origin-destination airport pair. Routes are
// ordered by descending CO2, then by origin and destination.
func Routes(v *dataset.View) []Route {
	type key struct{ dep, arr string }
	index := make(map[key]int)
	var routes []Route
	airlines := make(map[key]map[string]struct{})
	aircraft := make(map[key]map[string]struct{})

	v.Each(func(r *dataset.FlightRecord) {
		k := key{r.DepartureAirport, r.ArrivalAirport}
		i, ok := index[k]
		if !ok {
			i = len(routes)
			index[k] = i
			routes = append(routes, Route{
				Departure:  r.DepartureAirport,
				Arrival:    r.ArrivalAirport,
				DistanceKm: r.DistanceKm,
				From:       r.Departure,
				To:         r.Arrival,
			})
			airlines[k] = make(map[string]struct{})
			aircraft[k] = make(map[string]struct{})
		}
		routes[i].Metrics = routes[i].Metrics.Add(r.Metrics)
		airlines[k][r.Airline] = struct{}{}
		aircraft[k][r.Aircraft] = struct{}{}
	})

	for k, i := range index {
		routes[i].Airlines = sortedKeys(airlines[k])
		routes[i].Aircraft = sortedKeys(aircraft[k])
	}

	slices.SortFunc(routes, func(a, b Route) int {
		if c := cmp.Compare(b.Metrics.CO2, a.Metrics.CO2); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Departure, b.Departure); c != 0 {
			return c
		}
		return cmp.Compare(a.Arrival, b.Arrival)
	})
	return routes
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
