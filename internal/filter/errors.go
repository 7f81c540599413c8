package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
)

// SyntaxError reports a malformed expression.
type SyntaxError struct {
	Source string
	Pos    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("filter syntax error at offset %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("filter syntax error at offset %d in %q: %s", e.Pos, e.Source, e.Msg)
}

func withSource(err error, src string) error {
	var se *SyntaxError
	if errors.As(err, &se) && se.Source == "" {
		se.Source = src
	}
	return err
}

// UnknownColumnError reports a reference to a column the table does not have.
type UnknownColumnError struct {
	Column      string
	Suggestions []string
}

func (e *UnknownColumnError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown column %q", e.Column)
	}
	return fmt.Sprintf("unknown column %q (did you mean %s?)", e.Column, strings.Join(e.Suggestions, ", "))
}

// Lookup returns the index of column name in t, or an *UnknownColumnError
// carrying the closest existing names.
func Lookup(t *dataset.Table, name string) (int, error) {
	if idx, ok := t.ColumnIndex(name); ok {
		return idx, nil
	}
	return -1, newUnknownColumnError(name, t.Columns())
}

const maxSuggestions = 3

func newUnknownColumnError(name string, columns []string) *UnknownColumnError {
	type cand struct {
		name string
		dist int
	}
	limit := len(name)/2 + 1
	var cands []cand
	for _, c := range columns {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if d <= limit {
			cands = append(cands, cand{c, d})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].name < cands[j].name
		}
		return cands[i].dist < cands[j].dist
	})
	if len(cands) > maxSuggestions {
		cands = cands[:maxSuggestions]
	}
	e := &UnknownColumnError{Column: name}
	for _, c := range cands {
		e.Suggestions = append(e.Suggestions, c.name)
	}
	return e
}
