// Package table implements an in-memory columnar dataset with string cells.
//
// A Table is a header plus rows of string cells. The empty string marks a
// missing value, which keeps "zero" and "absent" distinguishable for numeric
// columns once parsed. All transforming methods return a new Table and leave
// the receiver untouched, so cached tables can be shared across requests.
package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Table is an immutable-by-convention columnar dataset.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// Row is a lightweight view over a single table row.
type Row struct {
	t *Table
	i int
}

// Get returns the cell under col, or "" when the column is absent.
func (r Row) Get(col string) string {
	idx, ok := r.t.index[col]
	if !ok {
		return ""
	}
	return r.t.rows[r.i][idx]
}

// Index returns the position of the row within its table.
func (r Row) Index() int { return r.i }

// New creates an empty table with the given columns.
func New(cols []string) (*Table, error) {
	index := make(map[string]int, len(cols))
	owned := make([]string, len(cols))
	for i, c := range cols {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		index[c] = i
		owned[i] = c
	}
	return &Table{cols: owned, index: index}, nil
}

// FromRows creates a table from a header and pre-built rows.
func FromRows(cols []string, rows [][]string) (*Table, error) {
	t, err := New(cols)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := t.Append(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Append adds a row. The row must have exactly one cell per column.
func (t *Table) Append(row []string) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrRowWidth, len(row), len(t.cols))
	}
	owned := make([]string, len(row))
	copy(owned, row)
	t.rows = append(t.rows, owned)
	return nil
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table carries the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Cell returns the cell at row i under col, or "" when either is out of range.
func (t *Table) Cell(i int, col string) string {
	if i < 0 || i >= len(t.rows) {
		return ""
	}
	idx, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.rows[i][idx]
}

// Row returns a view over row i. The view is only valid while the table lives.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Filter returns a new table holding the rows for which keep returns true,
// in their original order. Row slices are shared with the receiver.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{cols: t.cols, index: t.index}
	for i := range t.rows {
		if keep(Row{t: t, i: i}) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// WithColumn returns a new table extended with a derived column. When the
// column already exists its cells are overwritten instead.
func (t *Table) WithColumn(name string, derive func(Row) string) *Table {
	if idx, ok := t.index[name]; ok {
		out := t.clone()
		for i := range out.rows {
			out.rows[i][idx] = derive(Row{t: t, i: i})
		}
		return out
	}

	cols := make([]string, len(t.cols)+1)
	copy(cols, t.cols)
	cols[len(t.cols)] = name
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}

	out := &Table{cols: cols, index: index, rows: make([][]string, len(t.rows))}
	for i := range t.rows {
		row := make([]string, len(cols))
		copy(row, t.rows[i])
		row[len(cols)-1] = derive(Row{t: t, i: i})
		out.rows[i] = row
	}
	return out
}

// Rename returns a new table with columns renamed per the mapping. A rename
// is skipped when its target name is already taken by another column.
func (t *Table) Rename(mapping map[string]string) *Table {
	cols := make([]string, len(t.cols))
	copy(cols, t.cols)
	for i, c := range cols {
		target, ok := mapping[c]
		if !ok || target == c {
			continue
		}
		if _, taken := t.index[target]; taken {
			continue
		}
		cols[i] = target
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	return &Table{cols: cols, index: index, rows: t.rows}
}

// Sort returns a new table with rows ordered by col. Cells that parse as
// numbers compare numerically, everything else lexically; missing cells sort
// last. The sort is stable so equal keys keep their input order.
func (t *Table) Sort(col string, desc bool) *Table {
	idx, ok := t.index[col]
	if !ok {
		return t
	}
	out := t.clone()
	sort.SliceStable(out.rows, func(a, b int) bool {
		va, vb := out.rows[a][idx], out.rows[b][idx]
		// Missing cells sort last regardless of direction.
		if va == "" || vb == "" {
			return va != "" && vb == ""
		}
		if desc {
			return cellLess(vb, va)
		}
		return cellLess(va, vb)
	})
	return out
}

func cellLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

// DistinctValues returns the sorted distinct non-missing values under col.
func (t *Table) DistinctValues(col string) []string {
	idx, ok := t.index[col]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	for _, row := range t.rows {
		if v := row[idx]; v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DistinctCount returns the number of distinct non-missing values under col.
func (t *Table) DistinctCount(col string) int {
	idx, ok := t.index[col]
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for _, row := range t.rows {
		if v := row[idx]; v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// SumFloat sums the cells under col that parse as numbers.
func (t *Table) SumFloat(col string) float64 {
	idx, ok := t.index[col]
	if !ok {
		return 0
	}
	var sum float64
	for _, row := range t.rows {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64); err == nil {
			sum += v
		}
	}
	return sum
}

// Head returns a new table limited to the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n >= len(t.rows) {
		return t
	}
	return &Table{cols: t.cols, index: t.index, rows: t.rows[:n]}
}

// Records materializes the rows as column-keyed maps, ready for JSON encoding.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.rows))
	for i, row := range t.rows {
		rec := make(map[string]string, len(t.cols))
		for j, c := range t.cols {
			rec[c] = row[j]
		}
		out[i] = rec
	}
	return out
}

// clone deep-copies the rows so in-place mutation stays local.
func (t *Table) clone() *Table {
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = make([]string, len(row))
		copy(rows[i], row)
	}
	return &Table{cols: t.cols, index: t.index, rows: rows}
}
