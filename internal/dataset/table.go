package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Table is an in-memory respondent table. Rows are addressed by position and
// columns by name. A Table must not be modified once tabulation starts.
type Table struct {
	Name    string
	columns []string
	index   map[string]int
	rows    [][]Value
}

// View is an ordered subset of table rows, expressed as row positions.
type View []int

// NewTable builds a table from column names and rows. Short rows are padded with
// missing values; duplicate or blank column names are rejected.
func NewTable(name string, columns []string, rows [][]Value) (*Table, error) {
	t := &Table{Name: name, columns: make([]string, len(columns)), index: make(map[string]int, len(columns))}
	for i, c := range columns {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("column %d has no name", i+1)
		}
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.columns[i] = c
		t.index[c] = i
	}
	t.rows = make([][]Value, len(rows))
	for i, r := range rows {
		if len(r) > len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(r), len(columns))
		}
		if len(r) < len(columns) {
			tmp := make([]Value, len(columns))
			copy(tmp, r)
			r = tmp
		}
		t.rows[i] = r
	}
	return t, nil
}

// Columns returns a copy of the column names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Cell returns the value at row r, column c (positions).
func (t *Table) Cell(r, c int) Value { return t.rows[r][c] }

// Row returns the values of row r. The slice must not be modified.
func (t *Table) Row(r int) []Value { return t.rows[r] }

// All returns a view over every row.
func (t *Table) All() View {
	v := make(View, len(t.rows))
	for i := range v {
		v[i] = i
	}
	return v
}

// SortBy orders rows by the given columns (ascending, missing last). Columns not
// present in the table are skipped. Only call while loading.
func (t *Table) SortBy(columns ...string) {
	var keys []int
	for _, c := range columns {
		if i, ok := t.index[c]; ok {
			keys = append(keys, i)
		}
	}
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(t.rows, func(a, b int) bool {
		for _, k := range keys {
			if c := compareCells(t.rows[a][k], t.rows[b][k]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// compareCells orders numbers numerically (numeric-looking text included),
// then text lexically; missing sorts last.
func compareCells(a, b Value) int {
	if a.IsMissing() || b.IsMissing() {
		switch {
		case a.IsMissing() && b.IsMissing():
			return 0
		case a.IsMissing():
			return 1
		default:
			return -1
		}
	}
	af, aok := sortKey(a)
	bf, bok := sortKey(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	if aok != bok {
		if aok {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Str, b.Str)
}

func sortKey(v Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	return f, err == nil
}
