package dataset

import "math"

// ColumnProfile summarises one column of a Table.
type ColumnProfile struct {
	Name     string
	Numeric  int
	Text     int
	Missing  int
	Distinct int
	// Min and Max cover the numeric cells; NaN when there are none.
	Min, Max float64
}

// Kind names the dominant content of the column.
func (p ColumnProfile) Kind() string {
	switch {
	case p.Numeric == 0 && p.Text == 0:
		return "empty"
	case p.Text == 0:
		return "numeric"
	case p.Numeric == 0:
		return "text"
	}
	return "mixed"
}

// Profile computes a ColumnProfile for every column, in column order.
func Profile(t *Table) []ColumnProfile {
	out := make([]ColumnProfile, len(t.columns))
	for c, name := range t.columns {
		p := ColumnProfile{Name: name, Min: math.NaN(), Max: math.NaN()}
		seen := make(map[Value]struct{})
		for r := range t.rows {
			v := t.rows[r][c]
			switch v.Kind {
			case Missing:
				p.Missing++
				continue
			case Number:
				p.Numeric++
				if math.IsNaN(p.Min) || v.Num < p.Min {
					p.Min = v.Num
				}
				if math.IsNaN(p.Max) || v.Num > p.Max {
					p.Max = v.Num
				}
			case Text:
				p.Text++
			}
			seen[v] = struct{}{}
		}
		p.Distinct = len(seen)
		out[c] = p
	}
	return out
}
