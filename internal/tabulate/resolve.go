package tabulate

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
	"github.com/KaramelBytes/tabloom-cli/internal/question"
)

// FormatPercent renders count as a percentage of base with two decimals.
// An empty base renders as "0.00%".
func FormatPercent(count, base float64) string {
	if base <= 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", count/base*100)
}

// Count returns the number of rows in view that fall into c. qcol is the
// question variable column for single-select categories; multi-select
// categories look up their own columns and count an absent column as zero.
func Count(t *dataset.Table, view dataset.View, qcol int, c question.Category) int {
	n := 0
	switch c := c.(type) {
	case question.Code:
		for _, r := range view {
			if t.Cell(r, qcol).Equal(c.Value) {
				n++
			}
		}
	case question.CodeNet:
		for _, r := range view {
			v := t.Cell(r, qcol)
			for _, want := range c.Values {
				if v.Equal(want) {
					n++
					break
				}
			}
		}
	case question.MultiVar:
		col, ok := t.ColumnIndex(c.Column)
		if !ok {
			return 0
		}
		for _, r := range view {
			if t.Cell(r, col).IsOne() {
				n++
			}
		}
	case question.MultiNet:
		// Total mentions: a respondent selecting two member columns counts twice.
		cols := presentColumns(t, c.Columns)
		for _, r := range view {
			for _, col := range cols {
				if t.Cell(r, col).IsOne() {
					n++
				}
			}
		}
	}
	return n
}

func presentColumns(t *dataset.Table, names []string) []int {
	var out []int
	for _, name := range names {
		if idx, ok := t.ColumnIndex(name); ok {
			out = append(out, idx)
		}
	}
	return out
}

// distribution is the frequency table of an open numeric question.
type distribution struct {
	values []float64 // ascending, distinct
	counts map[float64]int
	valid  int
}

func numericDistribution(t *dataset.Table, view dataset.View, qcol int) distribution {
	d := distribution{counts: make(map[float64]int)}
	for _, r := range view {
		f, ok := t.Cell(r, qcol).Float()
		if !ok {
			continue
		}
		if _, seen := d.counts[f]; !seen {
			d.values = append(d.values, f)
		}
		d.counts[f]++
		d.valid++
	}
	sort.Float64s(d.values)
	return d
}
