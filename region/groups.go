package region

// Labels of the regional groups.
const (
	EuropeanUnion          = "European Union"
	EuropeanUnionOutermost = "European Union + Outermost Regions"
	OECD                   = "OECD"
	G7                     = "G7"
	G20                    = "G20"
	Eurocontrol            = "Eurocontrol Members"
	BRICS                  = "BRICS"
	FranceOverseas         = "France + Overseas"
)

// labels is the display order of the groups.
var labels = []string{
	EuropeanUnion,
	EuropeanUnionOutermost,
	OECD,
	G7,
	G20,
	Eurocontrol,
	BRICS,
	FranceOverseas,
}

// Members use the country spellings of the flight datasets.
var members = map[string][]string{
	EuropeanUnion: {
		"Austria, Republic of",
		"Belgium, Kingdom of",
		"Bulgaria, Republic of",
		"Croatia, Republic of",
		"Cyprus, Republic of",
		"Czech Republic",
		"Denmark, Kingdom of",
		"Estonia, Republic of",
		"Finland, Republic of",
		"France, French Republic",
		"Germany, Federal Republic of",
		"Greece, Hellenic Republic",
		"Hungary, Republic of",
		"Ireland",
		"Italy, Italian Republic",
		"Latvia, Republic of",
		"Lithuania, Republic of",
		"Luxembourg, Grand Duchy of",
		"Malta, Republic of",
		"Netherlands, Kingdom of the",
		"Poland, Republic of",
		"Portugal, Portuguese Republic",
		"Romania",
		"Slovakia (Slovak Republic)",
		"Slovenia, Republic of",
		"Spain, Kingdom of",
		"Sweden, Kingdom of",
	},
	EuropeanUnionOutermost: {
		"Austria, Republic of",
		"Belgium, Kingdom of",
		"Bulgaria, Republic of",
		"Mayotte",
		"Croatia, Republic of",
		"Czech Republic",
		"Denmark, Kingdom of",
		"Estonia, Republic of",
		"Finland, Republic of",
		"France, French Republic",
		"French Guiana",
		"Germany, Federal Republic of",
		"Greece, Hellenic Republic",
		"Guadeloupe",
		"Hungary, Republic of",
		"Ireland",
		"Italy, Italian Republic",
		"Latvia, Republic of",
		"Lithuania, Republic of",
		"Luxembourg, Grand Duchy of",
		"Malta, Republic of",
		"Martinique",
		"Netherlands, Kingdom of the",
		"Poland, Republic of",
		"Portugal, Portuguese Republic",
		"Reunion",
		"Romania",
		"Slovakia (Slovak Republic)",
		"Slovenia, Republic of",
		"Spain, Kingdom of",
		"Sweden, Kingdom of",
		"Saint Martin",
	},
	OECD: {
		"Australia, Commonwealth of",
		"Austria, Republic of",
		"Belgium, Kingdom of",
		"Canada",
		"Chile, Republic of",
		"Colombia, Republic of",
		"Czech Republic",
		"Denmark, Kingdom of",
		"Estonia, Republic of",
		"Finland, Republic of",
		"France, French Republic",
		"Germany, Federal Republic of",
		"Greece, Hellenic Republic",
		"Hungary, Republic of",
		"Iceland, Republic of",
		"Ireland",
		"Israel, State of",
		"Italy, Italian Republic",
		"Japan",
		"Korea, Republic of",
		"Latvia, Republic of",
		"Lithuania, Republic of",
		"Luxembourg, Grand Duchy of",
		"Mexico, United Mexican States",
		"Netherlands, Kingdom of the",
		"New Zealand",
		"Norway, Kingdom of",
		"Poland, Republic of",
		"Portugal, Portuguese Republic",
		"Slovakia (Slovak Republic)",
		"Slovenia, Republic of",
		"Spain, Kingdom of",
		"Sweden, Kingdom of",
		"Switzerland, Swiss Confederation",
		"Turkey, Republic of",
		"United Kingdom of Great Britain & Northern Ireland",
		"United States of America",
	},
	G7: {
		"Canada",
		"France, French Republic",
		"Germany, Federal Republic of",
		"Italy, Italian Republic",
		"Japan",
		"United Kingdom of Great Britain & Northern Ireland",
		"United States of America",
	},
	G20: {
		"Argentina, Argentine Republic",
		"Australia, Commonwealth of",
		"Brazil, Federative Republic of",
		"Canada",
		"China, People's Republic of",
		"France, French Republic",
		"Germany, Federal Republic of",
		"India, Republic of",
		"Indonesia, Republic of",
		"Italy, Italian Republic",
		"Japan",
		"Mexico, United Mexican States",
		"Russian Federation",
		"Saudi Arabia, Kingdom of",
		"South Africa, Republic of",
		"Republic of Korea",
		"Turkey, Republic of",
		"United Kingdom of Great Britain & Northern Ireland",
		"United States of America",
	},
	Eurocontrol: {
		"Albania, Republic of",
		"Armenia, Republic of",
		"Austria, Republic of",
		"Azerbaijan, Republic of",
		"Belgium, Kingdom of",
		"Bosnia and Herzegovina",
		"Bulgaria, Republic of",
		"Croatia, Republic of",
		"Cyprus, Republic of",
		"Czech Republic",
		"Denmark, Kingdom of",
		"Estonia, Republic of",
		"Finland, Republic of",
		"France, French Republic",
		"Georgia",
		"Germany, Federal Republic of",
		"Greece, Hellenic Republic",
		"Hungary, Republic of",
		"Ireland",
		"Italy, Italian Republic",
		"Latvia, Republic of",
		"Lithuania, Republic of",
		"Luxembourg, Grand Duchy of",
		"Malta, Republic of",
		"Moldova, Republic of",
		"Monaco, Principality of",
		"Montenegro, Republic of",
		"Netherlands, Kingdom of the",
		"North Macedonia, Republic of",
		"Norway, Kingdom of",
		"Poland, Republic of",
		"Portugal, Portuguese Republic",
		"Romania",
		"Serbia, Republic of",
		"Slovakia (Slovak Republic)",
		"Slovenia, Republic of",
		"Spain, Kingdom of",
		"Sweden, Kingdom of",
		"Switzerland, Swiss Confederation",
		"Turkey, Republic of",
		"Ukraine",
		"United Kingdom of Great Britain & Northern Ireland",
	},
	BRICS: {
		"Brazil, Federative Republic of",
		"Russian Federation",
		"India, Republic of",
		"China, People's Republic of",
		"South Africa, Republic of",
	},
	FranceOverseas: {
		"Mayotte",
		"French Polynesia",
		"Guadeloupe",
		"French Guiana",
		"Martinique",
		"New Caledonia",
		"Reunion",
		"Saint Barthelemy",
		"Saint Pierre and Miquelon",
		"Wallis and Futuna",
		"Saint Martin",
		"France, French Republic",
	},
}
