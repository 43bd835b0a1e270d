package dataset

import "github.com/paulmach/orb"

var continentNames = map[string]string{
	"AF": "Africa",
	"AS": "Asia",
	"EU": "Europe",
	"NA": "North America",
	"SA": "South America",
	"OC": "Oceania",
	"AN": "Antarctica",
}

// Map anchor of each continent, used to place continental flows.
var continentCentroids = map[string]orb.Point{
	"AF": {17.7578122, 11.5024338},
	"AS": {89.2343748, 51.2086975},
	"EU": {10.0, 51.0},
	"NA": {-109.0, 51.0000002},
	"SA": {-61.0006565, -21.0002179},
	"OC": {173.7741688, -12.7725835},
	"AN": {0.3149312, -79.4063075},
}

// ContinentName translates a two-letter continent code. Unknown codes are
// returned unchanged.
func ContinentName(code string) string {
	if name, ok := continentNames[code]; ok {
		return name
	}
	return code
}

// ContinentCentroid returns the map anchor of a continent given either its
// code or its name.
func ContinentCentroid(continent string) (orb.Point, bool) {
	if p, ok := continentCentroids[continent]; ok {
		return p, true
	}
	for code, name := range continentNames {
		if name == continent {
			return continentCentroids[code], true
		}
	}
	return orb.Point{}, false
}
