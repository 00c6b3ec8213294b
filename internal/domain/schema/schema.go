// Package schema normalizes dataset headers and resolves column synonyms.
//
// The source CSVs come from several exporters and disagree on header casing
// and naming ("NOC" vs "country_code", "Sex" vs "gender"). Normalize maps
// headers onto one canonical form so downstream code never has to guess.
package schema

import (
	"fmt"
	"strings"

	"github.com/podiumhq/podium/internal/domain/table"
)

// Canonical column names used across all datasets.
const (
	ColCountryCode = "country_code"
	ColCountry     = "country"
	ColSport       = "sport"
	ColDiscipline  = "discipline"
	ColMedalType   = "medal_type"
	ColGender      = "gender"
	ColAge         = "age"
	ColBirthDate   = "birth_date"
	ColCode        = "code"
	ColName        = "name"
	ColEvent       = "event"
	ColVenue       = "venue"
	ColDate        = "date"
	ColStartDate   = "start_date"
	ColEndDate     = "end_date"
	ColStatus      = "status"
	ColLatitude    = "latitude"
	ColLongitude   = "longitude"
	ColGold        = "gold"
	ColSilver      = "silver"
	ColBronze      = "bronze"
	ColTotal       = "total"
	ColURL         = "url"
	ColContinent   = "continent"
)

// renames maps normalized header variants onto canonical names. Only
// unambiguous variants are rewritten here; ambiguous ones (e.g. "code",
// which is a NOC code in one file and an athlete code in another) are left
// alone and handled by the resolver functions below.
var renames = map[string]string{
	"noc":          ColCountryCode,
	"sex":          ColGender,
	"medal":        ColMedalType,
	"medal_code":   ColMedalType,
	"country_full": ColCountry,
	"country_long": ColCountry,
	"gold_medal":   ColGold,
	"silver_medal": ColSilver,
	"bronze_medal": ColBronze,
}

// Normalize rewrites all headers to lowercase snake_case and folds known
// synonyms onto their canonical names. The cell data is untouched.
func Normalize(t *table.Table) *table.Table {
	mapping := make(map[string]string)
	for _, col := range t.Columns() {
		norm := normalizeName(col)
		if canonical, ok := renames[norm]; ok {
			norm = canonical
		}
		if norm != col {
			mapping[col] = norm
		}
	}
	if len(mapping) == 0 {
		return t
	}
	return t.Rename(mapping)
}

func normalizeName(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Require verifies that all named columns are present on the table.
func Require(t *table.Table, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// Column preference orders for the filterable dimensions. Resolution runs
// after Normalize, so only canonical and genuinely ambiguous names remain.
var (
	countryCandidates = []string{ColCountryCode, ColCountry, ColCode}
	sportCandidates   = []string{ColSport, ColDiscipline}
	medalCandidates   = []string{ColMedalType}
	genderCandidates  = []string{ColGender}
)

func firstPresent(t *table.Table, candidates []string) string {
	for _, c := range candidates {
		if t.Has(c) {
			return c
		}
	}
	return ""
}

// CountryColumn returns the column carrying the country dimension, or "".
func CountryColumn(t *table.Table) string { return firstPresent(t, countryCandidates) }

// SportColumn returns the column carrying the sport dimension, or "".
func SportColumn(t *table.Table) string { return firstPresent(t, sportCandidates) }

// MedalColumn returns the column carrying the medal dimension, or "".
func MedalColumn(t *table.Table) string { return firstPresent(t, medalCandidates) }

// GenderColumn returns the column carrying the gender dimension, or "".
func GenderColumn(t *table.Table) string { return firstPresent(t, genderCandidates) }
