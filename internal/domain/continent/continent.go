// Package continent classifies NOC country codes into continents.
package continent

import (
	"sort"
	"strings"

	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
	"github.com/podiumhq/podium/pkg/metrics"
)

// Unknown is returned for codes without a continent mapping, and is what
// missing or malformed country cells classify as.
const Unknown = "Unknown"

// byCode maps IOC three-letter country codes to continent names.
var byCode = map[string]string{
	// Europe
	"ALB": "Europe", "AND": "Europe", "ARM": "Europe", "AUT": "Europe",
	"AZE": "Europe", "BLR": "Europe", "BEL": "Europe", "BIH": "Europe",
	"BUL": "Europe", "CRO": "Europe", "CYP": "Europe", "CZE": "Europe",
	"DEN": "Europe", "ESP": "Europe", "EST": "Europe", "FIN": "Europe",
	"FRA": "Europe", "GBR": "Europe", "GEO": "Europe", "GER": "Europe",
	"GRE": "Europe", "HUN": "Europe", "IRL": "Europe", "ISL": "Europe",
	"ISR": "Europe", "ITA": "Europe", "KOS": "Europe", "LAT": "Europe",
	"LIE": "Europe", "LTU": "Europe", "LUX": "Europe", "MDA": "Europe",
	"MKD": "Europe", "MLT": "Europe", "MON": "Europe", "MNE": "Europe",
	"NED": "Europe", "NOR": "Europe", "POL": "Europe", "POR": "Europe",
	"ROU": "Europe", "RUS": "Europe", "SRB": "Europe",
	"SVK": "Europe", "SLO": "Europe", "SMR": "Europe", "SUI": "Europe",
	"SWE": "Europe", "TUR": "Europe", "UKR": "Europe",

	// Asia
	"AFG": "Asia", "BAN": "Asia", "BRN": "Asia", "BHU": "Asia",
	"BRU": "Asia", "CAM": "Asia", "CHN": "Asia", "TPE": "Asia",
	"HKG": "Asia", "IND": "Asia", "INA": "Asia", "IRI": "Asia",
	"IRQ": "Asia", "JOR": "Asia", "JPN": "Asia", "KAZ": "Asia",
	"KGZ": "Asia", "KOR": "Asia", "KSA": "Asia", "KUW": "Asia",
	"LAO": "Asia", "LBN": "Asia", "MAS": "Asia", "MDV": "Asia",
	"MGL": "Asia", "MYA": "Asia", "NEP": "Asia", "OMA": "Asia",
	"PAK": "Asia", "PLE": "Asia", "PHI": "Asia", "PRK": "Asia",
	"QAT": "Asia", "SGP": "Asia", "SRI": "Asia", "SYR": "Asia",
	"TJK": "Asia", "THA": "Asia", "TLS": "Asia", "TKM": "Asia",
	"UAE": "Asia", "UZB": "Asia", "VIE": "Asia", "YEM": "Asia",

	// Africa
	"ALG": "Africa", "ANG": "Africa", "BEN": "Africa", "BOT": "Africa",
	"BUR": "Africa", "BDI": "Africa", "CMR": "Africa", "CPV": "Africa",
	"CAF": "Africa", "CHA": "Africa", "CGO": "Africa", "COM": "Africa",
	"CIV": "Africa", "COD": "Africa", "DJI": "Africa", "EGY": "Africa",
	"GEQ": "Africa", "ERI": "Africa", "ETH": "Africa", "GAB": "Africa",
	"GAM": "Africa", "GHA": "Africa", "GUI": "Africa", "GBS": "Africa",
	"KEN": "Africa", "LES": "Africa", "LBR": "Africa", "LBA": "Africa",
	"MAD": "Africa", "MAW": "Africa", "MLI": "Africa", "MRI": "Africa",
	"MTN": "Africa", "MAR": "Africa", "MOZ": "Africa", "NAM": "Africa",
	"NIG": "Africa", "NGR": "Africa", "RWA": "Africa", "STP": "Africa",
	"SEN": "Africa", "SEY": "Africa", "SLE": "Africa", "SOM": "Africa",
	"RSA": "Africa", "SSD": "Africa", "SUD": "Africa", "TAN": "Africa",
	"TOG": "Africa", "TUN": "Africa", "UGA": "Africa", "ZAM": "Africa",
	"ZIM": "Africa",

	// North America
	"ANT": "North America", "ARU": "North America", "BAH": "North America",
	"BAR": "North America", "BIZ": "North America", "BER": "North America",
	"CAN": "North America", "CAY": "North America", "CRC": "North America",
	"CUB": "North America", "DMA": "North America", "DOM": "North America",
	"ESA": "North America", "GRN": "North America", "GUA": "North America",
	"HAI": "North America", "HON": "North America", "JAM": "North America",
	"MEX": "North America", "NCA": "North America", "PAN": "North America",
	"PUR": "North America", "SKN": "North America", "LCA": "North America",
	"VIN": "North America", "TTO": "North America", "USA": "North America",
	"ISV": "North America",

	// South America
	"ARG": "South America", "BOL": "South America", "BRA": "South America",
	"CHI": "South America", "COL": "South America", "ECU": "South America",
	"GUY": "South America", "PAR": "South America", "PER": "South America",
	"SUR": "South America", "URU": "South America", "VEN": "South America",

	// Oceania
	"ASA": "Oceania", "AUS": "Oceania", "COK": "Oceania", "FIJ": "Oceania",
	"GUM": "Oceania", "KIR": "Oceania", "MHL": "Oceania", "FSM": "Oceania",
	"NRU": "Oceania", "NZL": "Oceania", "PLW": "Oceania", "PNG": "Oceania",
	"SAM": "Oceania", "SOL": "Oceania", "TGA": "Oceania", "TUV": "Oceania",
	"VAN": "Oceania",
}

// Of returns the continent for a country code. Lookup is total: whitespace
// is stripped, the code is uppercased, and anything unmapped (including the
// empty string) yields Unknown.
func Of(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return Unknown
	}
	if cont, ok := byCode[c]; ok {
		return cont
	}
	return Unknown
}

// Valid reports whether the code has a continent mapping.
func Valid(code string) bool {
	_, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// All returns the sorted list of continent names in the mapping.
func All() []string {
	seen := make(map[string]struct{})
	for _, cont := range byCode {
		seen[cont] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for cont := range seen {
		out = append(out, cont)
	}
	sort.Strings(out)
	return out
}

// Countries returns the sorted country codes mapped to a continent.
func Countries(continent string) []string {
	var out []string
	for code, cont := range byCode {
		if cont == continent {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

// WithContinent returns the table extended with a "continent" column derived
// from its country dimension. Tables that already carry the column, or that
// have no country-ish column at all, come back unchanged. Unmapped codes are
// counted but still classified, as Unknown.
func WithContinent(t *table.Table) *table.Table {
	if t.Has(schema.ColContinent) {
		return t
	}
	col := schema.CountryColumn(t)
	if col == "" {
		return t
	}
	return t.WithColumn(schema.ColContinent, func(r table.Row) string {
		code := r.Get(col)
		cont := Of(code)
		if cont == Unknown && strings.TrimSpace(code) != "" {
			metrics.RecordUnknownCountryCode(strings.ToUpper(strings.TrimSpace(code)))
		}
		return cont
	})
}
