// Package datasettest provides small flight tables for tests.
package datasettest

import (
	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/paulmach/orb"
)

// Positions of the sample airports (lon, lat).
var (
	CDG = orb.Point{2.55, 49.0097}
	BCN = orb.Point{2.0785, 41.2971}
	FRA = orb.Point{8.5622, 50.0379}
	ATH = orb.Point{23.9445, 37.9364}
	JFK = orb.Point{-73.7781, 40.6413}
	ORY = orb.Point{2.3652, 48.7262}
	MRS = orb.Point{5.2214, 43.4393}
)

// Records returns the four reference flights:
//
//	CDG-BCN  800 km  CO2 100  ASK 1000  Seats 150
//	FRA-ATH 2000 km  CO2 500  ASK 4000  Seats 400
//	JFK-CDG 5000 km  CO2 900  ASK 8000  Seats 300
//	ORY-MRS 1500 km  CO2  50  ASK  500  Seats  50
func Records() []dataset.FlightRecord {
	return []dataset.FlightRecord{
		{
			DepartureAirport: "CDG", DepartureCountry: "France, French Republic", DepartureContinent: "Europe",
			ArrivalAirport: "BCN", ArrivalCountry: "Spain, Kingdom of", ArrivalContinent: "Europe",
			Airline: "AF", Aircraft: "A320", AircraftClass: "Narrowbody",
			DistanceKm: 800, Departure: CDG, Arrival: BCN,
			Metrics: dataset.Metrics{CO2: 100, ASK: 1000, Seats: 150, Flights: 1},
		},
		{
			DepartureAirport: "FRA", DepartureCountry: "Germany, Federal Republic of", DepartureContinent: "Europe",
			ArrivalAirport: "ATH", ArrivalCountry: "Greece, Hellenic Republic", ArrivalContinent: "Europe",
			Airline: "LH", Aircraft: "A321", AircraftClass: "Narrowbody",
			DistanceKm: 2000, Departure: FRA, Arrival: ATH,
			Metrics: dataset.Metrics{CO2: 500, ASK: 4000, Seats: 400, Flights: 2},
		},
		{
			DepartureAirport: "JFK", DepartureCountry: "United States of America", DepartureContinent: "North America",
			ArrivalAirport: "CDG", ArrivalCountry: "France, French Republic", ArrivalContinent: "Europe",
			Airline: "AF", Aircraft: "B77W", AircraftClass: "Widebody",
			DistanceKm: 5000, Departure: JFK, Arrival: CDG,
			Metrics: dataset.Metrics{CO2: 900, ASK: 8000, Seats: 300, Flights: 1},
		},
		{
			DepartureAirport: "ORY", DepartureCountry: "France, French Republic", DepartureContinent: "Europe",
			ArrivalAirport: "MRS", ArrivalCountry: "France, French Republic", ArrivalContinent: "Europe",
			Airline: "AF", Aircraft: "A320", AircraftClass: "Narrowbody", Domestic: true,
			DistanceKm: 1500, Departure: ORY, Arrival: MRS,
			Metrics: dataset.Metrics{CO2: 50, ASK: 500, Seats: 50, Flights: 4},
		},
	}
}

// Table returns the reference flights under the compilation convention,
// which carries no flight counts.
func Table() *dataset.Table {
	return dataset.NewTable(dataset.CompilationColumns, Records())
}

// FlightsTable returns the reference flights under the OpenSky convention,
// which carries flight counts.
func FlightsTable() *dataset.Table {
	return dataset.NewTable(dataset.OpenSkyColumns, Records())
}

// CSV is the reference flights in the compilation CSV layout, with a
// leading unnamed index column and a missing airline on the last row.
const CSV = `,iata_departure,iata_arrival,departure_country_name,departure_continent_name,arrival_country_name,arrival_continent_name,airline_iata,acft_icao,acft_class,domestic,distance_km,departure_lon,departure_lat,arrival_lon,arrival_lat,CO2 (kg),ASK,Seats
0,CDG,BCN,"France, French Republic",Europe,"Spain, Kingdom of",Europe,AF,A320,Narrowbody,0,800,2.55,49.0097,2.0785,41.2971,100,1000,150
1,FRA,ATH,"Germany, Federal Republic of",Europe,"Greece, Hellenic Republic",Europe,LH,A321,Narrowbody,0,2000,8.5622,50.0379,23.9445,37.9364,500,4000,400
2,JFK,CDG,United States of America,North America,"France, French Republic",Europe,AF,B77W,Widebody,0,5000,-73.7781,40.6413,2.55,49.0097,900,8000,300
3,ORY,MRS,"France, French Republic",Europe,"France, French Republic",Europe,,A320,Narrowbody,1,1500,2.3652,48.7262,5.2214,43.4393,50,500,50
`
