// Package kpi computes the headline aggregates shown on the dashboard.
package kpi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
)

// Set holds the headline numbers for one (possibly filtered) dataset.
type Set struct {
	Rows      int `json:"rows"`
	Athletes  int `json:"athletes"`
	Countries int `json:"countries"`
	Sports    int `json:"sports"`
	Medals    int `json:"medals"`
	Events    int `json:"events"`
}

// Compute derives the KPI set from a table. Dimensions the table does not
// carry contribute zero; athletes fall back to the row count when no code
// or name column identifies them. An empty table yields all zeros.
func Compute(t *table.Table) Set {
	s := Set{Rows: t.Len()}
	if t.Len() == 0 {
		return s
	}

	switch {
	case t.Has(schema.ColCode) && schema.CountryColumn(t) != schema.ColCode:
		s.Athletes = t.DistinctCount(schema.ColCode)
	case t.Has(schema.ColName):
		s.Athletes = t.DistinctCount(schema.ColName)
	default:
		s.Athletes = t.Len()
	}

	if col := schema.CountryColumn(t); col != "" {
		s.Countries = t.DistinctCount(col)
	}
	if col := schema.SportColumn(t); col != "" {
		s.Sports = t.DistinctCount(col)
	}
	if t.Has(schema.ColEvent) {
		s.Events = t.DistinctCount(schema.ColEvent)
	}
	s.Medals = countMedals(t)
	return s
}

// countMedals counts per-medal rows when a medal_type column exists, and
// falls back to summing the total column on aggregated tables.
func countMedals(t *table.Table) int {
	if col := schema.MedalColumn(t); col != "" {
		n := 0
		for i := 0; i < t.Len(); i++ {
			if strings.TrimSpace(t.Cell(i, col)) != "" {
				n++
			}
		}
		return n
	}
	if t.Has(schema.ColTotal) {
		return int(t.SumFloat(schema.ColTotal))
	}
	return 0
}

// Count is one value bucket of a Distribution.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Distribution counts rows per distinct value of col, most frequent first
// with ties broken by value. Missing cells are skipped.
func Distribution(t *table.Table, col string) []Count {
	if !t.Has(col) {
		return nil
	}
	buckets := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		if v := t.Cell(i, col); v != "" {
			buckets[v]++
		}
	}
	out := make([]Count, 0, len(buckets))
	for v, n := range buckets {
		out = append(out, Count{Value: v, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Value < out[b].Value
	})
	return out
}

// Tally groups per-medal rows by groupBy and counts gold, silver, and
// bronze per group, tolerating the " Medal" suffix some exports carry.
// The result carries one row per group with a derived total, sorted by
// total descending.
func Tally(t *table.Table, groupBy string) (*table.Table, error) {
	if err := schema.Require(t, groupBy); err != nil {
		return nil, err
	}
	medalCol := schema.MedalColumn(t)
	if medalCol == "" {
		return nil, fmt.Errorf("%w: missing columns %s", schema.ErrSchemaMismatch, schema.ColMedalType)
	}

	type tally struct {
		gold, silver, bronze int
	}
	counts := make(map[string]*tally)
	var order []string
	for i := 0; i < t.Len(); i++ {
		key := t.Cell(i, groupBy)
		if key == "" {
			continue
		}
		c, ok := counts[key]
		if !ok {
			c = &tally{}
			counts[key] = c
			order = append(order, key)
		}
		medal := strings.TrimSuffix(strings.TrimSpace(t.Cell(i, medalCol)), " Medal")
		switch strings.ToLower(medal) {
		case "gold":
			c.gold++
		case "silver":
			c.silver++
		case "bronze":
			c.bronze++
		}
	}

	out, err := table.New([]string{groupBy, schema.ColGold, schema.ColSilver, schema.ColBronze, schema.ColTotal})
	if err != nil {
		return nil, err
	}
	for _, key := range order {
		c := counts[key]
		total := c.gold + c.silver + c.bronze
		row := []string{
			key,
			strconv.Itoa(c.gold),
			strconv.Itoa(c.silver),
			strconv.Itoa(c.bronze),
			strconv.Itoa(total),
		}
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out.Sort(schema.ColTotal, true), nil
}
