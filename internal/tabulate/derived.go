package tabulate

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
	"github.com/KaramelBytes/tabloom-cli/internal/question"
)

// Derived row labels, in output order.
const (
	LabelBase     = "Base"
	LabelNoAnswer = "No Answer"
	LabelSigma    = "Sigma"
	LabelMean     = "Mean"
	LabelStdErr   = "Std.err"
	LabelStdDev   = "Std.dev"
	LabelMedian   = "Median"
)

// statLabels is the order of the summary statistic rows.
var statLabels = []string{LabelMean, LabelStdErr, LabelStdDev, LabelMedian}

// NoAnswerAndSigma computes the unanswered count and the Sigma total of one
// segment. For single-select questions the no-answer count is the base minus
// the plain code total. For multi-select questions it is the number of rows
// without any selected column among multiCols; with no configured columns a
// row counts as answered when any of its cells is present.
func NoAnswerAndSigma(t *dataset.Table, view dataset.View, base, total int, qt question.Type, multiCols []string) (noAnswer, sigma int) {
	switch {
	case base == 0:
		noAnswer = 0
	case qt == question.Single:
		noAnswer = max(0, base-total)
	case qt == question.Multi:
		noAnswer = base - answeredRows(t, view, multiCols)
	}
	return noAnswer, total + noAnswer
}

func answeredRows(t *dataset.Table, view dataset.View, multiCols []string) int {
	n := 0
	if len(multiCols) == 0 {
		for _, r := range view {
			for _, v := range t.Row(r) {
				if !v.IsMissing() {
					n++
					break
				}
			}
		}
		return n
	}
	cols := presentColumns(t, multiCols)
	for _, r := range view {
		for _, c := range cols {
			if t.Cell(r, c).IsOne() {
				n++
				break
			}
		}
	}
	return n
}

// Summary holds the descriptive statistics of a numeric column.
type Summary struct {
	N      int
	Mean   float64
	Std    float64 // sample standard deviation (n-1)
	SEM    float64 // standard error of the mean
	Median float64
}

// Summarize computes a Summary with Welford's online algorithm. Std and SEM
// are NaN when fewer than two values are present; everything is NaN for no values.
func Summarize(vals []float64) Summary {
	s := Summary{N: len(vals), Mean: math.NaN(), Std: math.NaN(), SEM: math.NaN(), Median: math.NaN()}
	if s.N == 0 {
		return s
	}
	var mean, m2 float64
	for i, x := range vals {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	s.Mean = mean
	if s.N > 1 {
		s.Std = math.Sqrt(m2 / float64(s.N-1))
		s.SEM = s.Std / math.Sqrt(float64(s.N))
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Median = quantile(sorted, 0.5)
	return s
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Stats returns the Mean, Std.err, Std.dev and Median cells for column
// meanVar over view, keyed by label. ok is false when the column does not exist.
//
// The labels follow the legacy report: "Std.err" carries the sample standard
// deviation and "Std.dev" the standard error of the mean.
func Stats(t *dataset.Table, view dataset.View, meanVar string) (cells map[string]string, ok bool) {
	col, ok := t.ColumnIndex(meanVar)
	if !ok {
		return nil, false
	}
	vals := make([]float64, 0, len(view))
	for _, r := range view {
		if f, isNum := t.Cell(r, col).Float(); isNum {
			vals = append(vals, f)
		}
	}
	s := Summarize(vals)
	return map[string]string{
		LabelMean:   formatStat(s.Mean),
		LabelStdErr: formatStat(s.Std),
		LabelStdDev: formatStat(s.SEM),
		LabelMedian: formatStat(s.Median),
	}, true
}

func formatStat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}
