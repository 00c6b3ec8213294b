// Package filter applies multi-dimension selections to datasets.
//
// A Selection narrows a table along up to six dimensions. Dimensions that
// are empty, or whose column a table does not carry, are skipped rather
// than failing, so one selection can be applied across heterogeneous
// datasets. Filtering only ever removes rows, never reorders or edits them,
// which makes applying the same selection twice a no-op.
package filter

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/podiumhq/podium/internal/domain/merge"
	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
	"github.com/podiumhq/podium/pkg/metrics"
)

// Selection holds the active filter values. Zero value selects everything.
type Selection struct {
	Continents []string `json:"continents,omitempty"`
	Countries  []string `json:"countries,omitempty"`
	Sports     []string `json:"sports,omitempty"`
	MedalTypes []string `json:"medal_types,omitempty"`
	Genders    []string `json:"genders,omitempty"`
	AgeMin     *int     `json:"age_min,omitempty"`
	AgeMax     *int     `json:"age_max,omitempty"`
}

// Empty reports whether the selection has no active dimension.
func (s Selection) Empty() bool {
	return len(s.Continents) == 0 && len(s.Countries) == 0 && len(s.Sports) == 0 &&
		len(s.MedalTypes) == 0 && len(s.Genders) == 0 && s.AgeMin == nil && s.AgeMax == nil
}

// Apply filters the table down to the rows matching every active dimension.
// The empty selection is the identity.
func (s Selection) Apply(t *table.Table) *table.Table {
	if s.Empty() || t.Len() == 0 {
		return t
	}
	start := time.Now()

	out := t
	out = s.applyContinents(out)
	out = s.applyCountries(out)
	out = s.applySports(out)
	out = s.applyMedals(out)
	out = s.applyGenders(out)
	out = s.applyAge(out)

	metrics.RecordFilterApplication()
	metrics.RecordFilterDuration(float64(time.Since(start).Milliseconds()))
	metrics.RecordFilterRowsRetained(out.Len())
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s Selection) applyContinents(t *table.Table) *table.Table {
	if len(s.Continents) == 0 || !t.Has(schema.ColContinent) {
		return t
	}
	want := toSet(s.Continents)
	return t.Filter(func(r table.Row) bool {
		_, ok := want[r.Get(schema.ColContinent)]
		return ok
	})
}

// applyCountries matches against both the code and the full-name country
// columns, so a selection works whether it holds "FRA" or "France".
func (s Selection) applyCountries(t *table.Table) *table.Table {
	if len(s.Countries) == 0 {
		return t
	}
	var cols []string
	for _, c := range []string{schema.ColCountryCode, schema.ColCountry, schema.ColCode} {
		if t.Has(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return t
	}
	want := toSet(s.Countries)
	return t.Filter(func(r table.Row) bool {
		for _, c := range cols {
			if _, ok := want[r.Get(c)]; ok {
				return true
			}
		}
		return false
	})
}

func (s Selection) applySports(t *table.Table) *table.Table {
	if len(s.Sports) == 0 {
		return t
	}
	col := schema.SportColumn(t)
	if col == "" {
		return t
	}
	want := toSet(s.Sports)
	return t.Filter(func(r table.Row) bool {
		_, ok := want[r.Get(col)]
		return ok
	})
}

// applyMedals handles both shapes of medal data. Aggregated tables carrying
// gold/silver/bronze count columns keep the rows where the selected medal
// counts sum above zero. Per-medal tables match the medal type cell, with or
// without the " Medal" suffix some exports carry.
func (s Selection) applyMedals(t *table.Table) *table.Table {
	if len(s.MedalTypes) == 0 {
		return t
	}

	if t.Has(schema.ColGold) && t.Has(schema.ColSilver) && t.Has(schema.ColBronze) {
		cols := make([]string, 0, len(s.MedalTypes))
		for _, m := range s.MedalTypes {
			switch strings.ToLower(strings.TrimSpace(m)) {
			case "gold":
				cols = append(cols, schema.ColGold)
			case "silver":
				cols = append(cols, schema.ColSilver)
			case "bronze":
				cols = append(cols, schema.ColBronze)
			}
		}
		if len(cols) == 0 {
			return t
		}
		return t.Filter(func(r table.Row) bool {
			sum := 0
			for _, c := range cols {
				if n, err := strconv.Atoi(strings.TrimSpace(r.Get(c))); err == nil {
					sum += n
				}
			}
			return sum > 0
		})
	}

	col := schema.MedalColumn(t)
	if col == "" {
		return t
	}
	want := toSet(s.MedalTypes)
	return t.Filter(func(r table.Row) bool {
		v := strings.TrimSpace(r.Get(col))
		if _, ok := want[v]; ok {
			return true
		}
		_, ok := want[strings.TrimSuffix(v, " Medal")]
		return ok
	})
}

// applyGenders compares title-cased values, so "female", "FEMALE" and
// "Female" all land in the same bucket.
func (s Selection) applyGenders(t *table.Table) *table.Table {
	if len(s.Genders) == 0 {
		return t
	}
	col := schema.GenderColumn(t)
	if col == "" {
		return t
	}
	want := make(map[string]struct{}, len(s.Genders))
	for _, g := range s.Genders {
		want[merge.TitleCase(g)] = struct{}{}
	}
	return t.Filter(func(r table.Row) bool {
		_, ok := want[merge.TitleCase(r.Get(col))]
		return ok
	})
}

// applyAge keeps rows whose age parses and falls inside the bounds. Rows
// without a usable age are excluded while the dimension is active.
func (s Selection) applyAge(t *table.Table) *table.Table {
	if s.AgeMin == nil && s.AgeMax == nil {
		return t
	}
	if !t.Has(schema.ColAge) {
		return t
	}
	return t.Filter(func(r table.Row) bool {
		age, err := strconv.Atoi(strings.TrimSpace(r.Get(schema.ColAge)))
		if err != nil {
			return false
		}
		if s.AgeMin != nil && age < *s.AgeMin {
			return false
		}
		if s.AgeMax != nil && age > *s.AgeMax {
			return false
		}
		return true
	})
}

// FromQuery builds a Selection from URL query parameters. List dimensions
// accept repeated keys and comma-separated values; blank entries are
// dropped.
func FromQuery(q url.Values) (Selection, error) {
	s := Selection{
		Continents: queryList(q, "continents"),
		Countries:  queryList(q, "countries"),
		Sports:     queryList(q, "sports"),
		MedalTypes: queryList(q, "medal_types"),
		Genders:    queryList(q, "genders"),
	}
	var err error
	if s.AgeMin, err = queryInt(q, "age_min"); err != nil {
		return Selection{}, err
	}
	if s.AgeMax, err = queryInt(q, "age_max"); err != nil {
		return Selection{}, err
	}
	if s.AgeMin != nil && s.AgeMax != nil && *s.AgeMin > *s.AgeMax {
		return Selection{}, ErrInvalidSelection
	}
	return s, nil
}

func queryList(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func queryInt(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, ErrInvalidSelection
	}
	return &n, nil
}
