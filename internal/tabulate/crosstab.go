// Package tabulate computes the crosstab of one question against a set of
// banner segments.
package tabulate

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/tabloom-cli/internal/banner"
	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
	"github.com/KaramelBytes/tabloom-cli/internal/filter"
	"github.com/KaramelBytes/tabloom-cli/internal/question"
)

// Grid is a rendered crosstab. Header is "Label" followed by one
// "ID (Label)" title per segment; every row has len(Header) cells.
type Grid struct {
	Header []string
	Rows   [][]string
}

type cell struct {
	count   string
	percent string
}

type segmentResult struct {
	base  int
	cells map[string]cell
}

// Crosstab tabulates q for each segment. Each segment is evaluated
// independently over the rows that pass the question's base filter and the
// segment condition. The result depends only on its inputs.
func Crosstab(t *dataset.Table, q question.Question, segments []banner.Segment) (*Grid, error) {
	cats, err := q.Categories()
	if err != nil {
		return nil, fmt.Errorf("question %d (%s): %w", q.ID, q.Var(), err)
	}
	baseExpr, err := filter.Parse(q.BaseFilter)
	if err != nil {
		return nil, fmt.Errorf("question %d (%s): base filter: %w", q.ID, q.Var(), err)
	}
	conds := make([]filter.Expr, len(segments))
	for i, s := range segments {
		if conds[i], err = filter.Parse(s.Condition); err != nil {
			return nil, fmt.Errorf("question %d (%s), segment %s: %w", q.ID, q.Var(), s.ID, err)
		}
	}

	qcol := -1
	if q.QuestionType != question.Multi {
		if qcol, err = filter.Lookup(t, q.Var()); err != nil {
			return nil, fmt.Errorf("question %d (%s): question variable: %w", q.ID, q.Var(), err)
		}
	}

	multiCols := q.MultiColumns()
	used := make(map[string]bool)
	openValues := make(map[float64]bool)
	results := make([]segmentResult, len(segments))

	for i, s := range segments {
		view, err := filter.Chain(t, t.All(), baseExpr, conds[i])
		if err != nil {
			return nil, fmt.Errorf("question %d (%s), segment %s: %w", q.ID, q.Var(), s.ID, err)
		}
		base := len(view)
		res := segmentResult{base: base, cells: make(map[string]cell)}
		total := 0

		if q.QuestionType == question.OpenNumeric {
			d := numericDistribution(t, view, qcol)
			for _, v := range d.values {
				n := d.counts[v]
				res.cells[dataset.FormatNumber(v)] = cell{
					count:   strconv.Itoa(n),
					percent: FormatPercent(float64(n), float64(d.valid)),
				}
				openValues[v] = true
				total += n
			}
		} else {
			for _, c := range cats {
				n := Count(t, view, qcol, c)
				res.cells[c.Label()] = cell{
					count:   strconv.Itoa(n),
					percent: FormatPercent(float64(n), float64(base)),
				}
				if !c.Net() {
					total += n
				}
			}
		}

		if q.ShowSigma {
			noAnswer, sigma := NoAnswerAndSigma(t, view, base, total, q.QuestionType, multiCols)
			if noAnswer > 0 {
				res.cells[LabelNoAnswer] = cell{strconv.Itoa(noAnswer), FormatPercent(float64(noAnswer), float64(base))}
				used[LabelNoAnswer] = true
			}
			res.cells[LabelSigma] = cell{strconv.Itoa(sigma), FormatPercent(float64(sigma), float64(base))}
			used[LabelSigma] = true
		}

		if q.MeanVar != "" {
			if stats, ok := Stats(t, view, q.MeanVar); ok {
				for label, v := range stats {
					res.cells[label] = cell{count: v}
					used[label] = true
				}
			}
		}
		results[i] = res
	}

	labels := rowLabels(q, cats, openValues)
	for _, l := range []string{LabelNoAnswer, LabelSigma} {
		if used[l] {
			labels = append(labels, l)
		}
	}
	for _, l := range statLabels {
		if used[l] {
			labels = append(labels, l)
		}
	}
	return render(segments, results, labels), nil
}

// rowLabels returns the category rows in display order. A label that appears
// more than once yields a single row at its first position.
func rowLabels(q question.Question, cats []question.Category, openValues map[float64]bool) []string {
	if q.QuestionType == question.OpenNumeric {
		vals := make([]float64, 0, len(openValues))
		for v := range openValues {
			vals = append(vals, v)
		}
		sort.Float64s(vals)
		labels := make([]string, len(vals))
		for i, v := range vals {
			labels[i] = dataset.FormatNumber(v)
		}
		return labels
	}
	seen := make(map[string]bool, len(cats))
	labels := make([]string, 0, len(cats))
	for _, c := range cats {
		if !seen[c.Label()] {
			seen[c.Label()] = true
			labels = append(labels, c.Label())
		}
	}
	return labels
}

func render(segments []banner.Segment, results []segmentResult, labels []string) *Grid {
	g := &Grid{Header: make([]string, 0, len(segments)+1)}
	g.Header = append(g.Header, "Label")
	for _, s := range segments {
		g.Header = append(g.Header, s.Header())
	}

	baseRow := []string{LabelBase}
	for _, r := range results {
		baseRow = append(baseRow, strconv.Itoa(r.base))
	}
	g.Rows = append(g.Rows, baseRow)

	for _, label := range labels {
		countRow := []string{label}
		pctRow := []string{""}
		hasPct := false
		for _, r := range results {
			c, ok := r.cells[label]
			if !ok {
				c = cell{count: "0"}
			}
			countRow = append(countRow, c.count)
			pctRow = append(pctRow, c.percent)
			if c.percent != "" {
				hasPct = true
			}
		}
		g.Rows = append(g.Rows, countRow)
		if hasPct {
			g.Rows = append(g.Rows, pctRow)
		}
	}
	return g
}
