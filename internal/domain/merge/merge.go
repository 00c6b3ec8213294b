// Package merge implements dataset joins, cleaning, and derived columns.
package merge

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
	"github.com/podiumhq/podium/pkg/metrics"
)

// LeftJoin joins right onto left by equality of leftKey and rightKey.
// Every left row appears exactly once, in its original order. When several
// right rows share a key the first one wins, so the result does not depend
// on how the right table happens to be ordered beyond that first match.
// cols names the right columns to carry over; empty means all of them except
// the key. Right columns that collide with an existing left column are
// skipped. Unmatched left rows get missing cells.
func LeftJoin(left, right *table.Table, leftKey, rightKey string, cols ...string) (*table.Table, error) {
	return join(left, right, leftKey, rightKey, cols, false)
}

// InnerJoin behaves like LeftJoin but drops left rows without a match.
func InnerJoin(left, right *table.Table, leftKey, rightKey string, cols ...string) (*table.Table, error) {
	return join(left, right, leftKey, rightKey, cols, true)
}

func join(left, right *table.Table, leftKey, rightKey string, cols []string, inner bool) (*table.Table, error) {
	if !left.Has(leftKey) {
		return nil, fmt.Errorf("%w: %q on left table", ErrMissingKey, leftKey)
	}
	if !right.Has(rightKey) {
		return nil, fmt.Errorf("%w: %q on right table", ErrMissingKey, rightKey)
	}

	if len(cols) == 0 {
		for _, c := range right.Columns() {
			if c != rightKey {
				cols = append(cols, c)
			}
		}
	}
	carried := cols[:0]
	for _, c := range cols {
		if right.Has(c) && !left.Has(c) {
			carried = append(carried, c)
		}
	}

	// First match per key wins.
	matches := make(map[string]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		key := right.Cell(i, rightKey)
		if _, seen := matches[key]; !seen {
			matches[key] = i
		}
	}

	outCols := append(left.Columns(), carried...)
	out, err := table.New(outCols)
	if err != nil {
		return nil, err
	}

	leftWidth := len(left.Columns())
	for i := 0; i < left.Len(); i++ {
		ri, ok := matches[left.Cell(i, leftKey)]
		if inner && !ok {
			continue
		}
		row := make([]string, len(outCols))
		for j, c := range left.Columns() {
			row[j] = left.Cell(i, c)
		}
		if ok {
			for j, c := range carried {
				row[leftWidth+j] = right.Cell(ri, c)
			}
		}
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WithCountryNames joins full country names from the NOC reference table
// onto t's country dimension. Tables already carrying a country column, or
// lacking a country dimension, come back unchanged.
func WithCountryNames(t, nocs *table.Table) *table.Table {
	if t.Has(schema.ColCountry) || nocs == nil || nocs.Len() == 0 {
		return t
	}
	leftKey := schema.CountryColumn(t)
	if leftKey == "" {
		return t
	}
	rightKey := schema.ColCode
	if !nocs.Has(rightKey) {
		rightKey = schema.ColCountryCode
	}
	if !nocs.Has(rightKey) || !nocs.Has(schema.ColCountry) {
		return t
	}
	joined, err := LeftJoin(t, nocs, leftKey, rightKey, schema.ColCountry)
	if err != nil {
		return t
	}
	return joined
}

// Dedupe drops rows that are exact duplicates of an earlier row, keeping
// the first occurrence. Returns the deduplicated table and the drop count.
func Dedupe(t *table.Table) (*table.Table, int) {
	seen := make(map[string]struct{}, t.Len())
	cols := t.Columns()
	dropped := 0
	out := t.Filter(func(r table.Row) bool {
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = r.Get(c)
		}
		sig := strings.Join(parts, "\x1f")
		if _, dup := seen[sig]; dup {
			dropped++
			return false
		}
		seen[sig] = struct{}{}
		return true
	})
	if dropped > 0 {
		metrics.RecordRowsDeduplicated(dropped)
	}
	return out, dropped
}

// birthDateLayouts covers the date formats seen across exports.
var birthDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
}

func parseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range birthDateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// CleanAthletes standardizes an athlete table: exact duplicates are dropped,
// gender values are trimmed and title-cased, and an age column is derived
// from birth_date against refDate. Unparseable birth dates leave the age
// cell missing.
func CleanAthletes(t *table.Table, refDate time.Time) *table.Table {
	out, _ := Dedupe(t)

	if out.Has(schema.ColGender) {
		out = out.WithColumn(schema.ColGender, func(r table.Row) string {
			return TitleCase(r.Get(schema.ColGender))
		})
	}

	if out.Has(schema.ColBirthDate) {
		out = out.WithColumn(schema.ColAge, func(r table.Row) string {
			born, ok := parseBirthDate(r.Get(schema.ColBirthDate))
			if !ok {
				return ""
			}
			days := int(refDate.Sub(born).Hours() / 24)
			return strconv.Itoa(days / 365)
		})
	}
	return out
}

// DeriveMedalTotal ensures an aggregated medal table carries a total column
// (sum of gold, silver, bronze per row) and returns it sorted by total
// descending.
func DeriveMedalTotal(t *table.Table) *table.Table {
	out := t
	if !out.Has(schema.ColTotal) {
		if out.Has(schema.ColGold) && out.Has(schema.ColSilver) && out.Has(schema.ColBronze) {
			out = out.WithColumn(schema.ColTotal, func(r table.Row) string {
				sum := cellInt(r.Get(schema.ColGold)) + cellInt(r.Get(schema.ColSilver)) + cellInt(r.Get(schema.ColBronze))
				return strconv.Itoa(sum)
			})
		}
	}
	if out.Has(schema.ColTotal) {
		out = out.Sort(schema.ColTotal, true)
	}
	return out
}

func cellInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// TitleCase trims the value and upper-cases the first letter of each word,
// lower-casing the rest, so "  fEMALE " becomes "Female".
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
