package match

import "math/rand"

// DefaultFragments is the built-in deck of French syllables a submitted word
// must contain. A custom deck can be supplied via configuration.
var DefaultFragments = []string{
	"BA", "BE", "BI", "BO", "BU",
	"BRA", "BRE", "BRI", "BRO", "BRU",
	"CA", "CE", "CI", "CO", "CU",
	"CHA", "CHE", "CHI", "CHO", "CHU",
	"CRA", "CRE", "CRI", "CRO", "CRU",
	"DA", "DE", "DI", "DO", "DU",
	"DRA", "DRE", "DRI", "DRO", "DRU",
	"FA", "FE", "FI", "FO", "FU",
	"FRA", "FRE", "FRI", "FRO", "FRU",
	"GA", "GE", "GI", "GO", "GU",
	"GRA", "GRE", "GRI", "GRO", "GRU",
	"LA", "LE", "LI", "LO", "LU",
	"MA", "ME", "MI", "MO", "MU",
	"NA", "NE", "NI", "NO", "NU",
	"PA", "PE", "PI", "PO", "PU",
	"PRA", "PRE", "PRI", "PRO", "PRU",
	"PLA", "PLE", "PLI", "PLO", "PLU",
	"RA", "RE", "RI", "RO", "RU",
	"SA", "SE", "SI", "SO", "SU",
	"TA", "TE", "TI", "TO", "TU",
	"TRA", "TRE", "TRI", "TRO", "TRU",
	"VA", "VE", "VI", "VO", "VU",
	"VRA", "VRE", "VRI", "VRO", "VRU",
	"ZA", "ZE", "ZI", "ZO", "ZU",
	"AN", "EN", "IN", "ON", "UN",
	"AR", "ER", "IR", "OR", "UR",
	"AL", "EL", "IL", "OL", "UL",
	"TION", "SION", "MENT", "LEUR", "TURE", "ENCE", "ANCE",
}

func drawFragment(rng *rand.Rand, fragments []string) string {
	return fragments[rng.Intn(len(fragments))]
}
