// Package report lays out crosstabs as the paged banner-table report and
// writes it to disk.
package report

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/banner"
	"github.com/KaramelBytes/tabloom-cli/internal/question"
	"github.com/KaramelBytes/tabloom-cli/internal/tabulate"
)

// PageMarker starts every table in the report.
const PageMarker = "#page"

// Metadata is printed at the top of every table.
type Metadata struct {
	Client string
	Study  string
	Date   time.Time
}

// Period renders the report date as "October 2023".
func (m Metadata) Period() string {
	return m.Date.Format("January 2006")
}

// Table pairs a question with its computed crosstab.
type Table struct {
	Question question.Question
	Grid     *tabulate.Grid
}

// Grid is the final report: rows of equal width, no header.
type Grid [][]string

// Build concatenates the tables in order, each preceded by its metadata block
// and the banner label and id rows. Every row is padded to the widest row.
func Build(meta Metadata, segments []banner.Segment, tables []Table) Grid {
	var out Grid
	labels := []string{""}
	ids := []string{""}
	for _, s := range segments {
		labels = append(labels, s.Label)
		ids = append(ids, s.ID)
	}
	for i, tbl := range tables {
		out = append(out,
			[]string{""},
			[]string{PageMarker},
			[]string{meta.Client},
			[]string{meta.Study},
			[]string{meta.Period()},
			[]string{fmt.Sprintf("Table %d", i+1)},
			[]string{tbl.Question.QuestionText},
			[]string{"Base: " + tbl.Question.BaseText},
			[]string{""},
			append([]string(nil), labels...),
			append([]string(nil), ids...),
		)
		if tbl.Grid != nil {
			for _, row := range tbl.Grid.Rows {
				out = append(out, append([]string(nil), row...))
			}
		}
	}
	return pad(out)
}

func pad(g Grid) Grid {
	width := 0
	for _, row := range g {
		width = max(width, len(row))
	}
	for i, row := range g {
		for len(row) < width {
			row = append(row, "")
		}
		g[i] = row
	}
	return g
}
