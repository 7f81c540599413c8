package question

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
)

// Category is a resolved display-structure entry. The concrete type is picked
// from the question type, never guessed from the payload shape:
//
//	single + code -> Code      single + net -> CodeNet
//	multi  + code -> MultiVar  multi  + net -> MultiNet
type Category interface {
	Label() string
	// Net reports whether the category unions other categories. Net counts
	// never contribute to the Sigma total.
	Net() bool
	isCategory()
}

// Code counts respondents whose answer equals Value.
type Code struct {
	Name  string
	Value dataset.Value
}

// CodeNet counts respondents whose answer is any of Values.
type CodeNet struct {
	Name   string
	Values []dataset.Value
}

// MultiVar counts respondents who selected the multi-select column.
type MultiVar struct {
	Name   string
	Column string
}

// MultiNet counts selections across several multi-select columns.
type MultiNet struct {
	Name    string
	Columns []string
}

func (c Code) Label() string     { return c.Name }
func (c CodeNet) Label() string  { return c.Name }
func (c MultiVar) Label() string { return c.Name }
func (c MultiNet) Label() string { return c.Name }

func (Code) Net() bool     { return false }
func (CodeNet) Net() bool  { return true }
func (MultiVar) Net() bool { return false }
func (MultiNet) Net() bool { return true }

func (Code) isCategory()     {}
func (CodeNet) isCategory()  {}
func (MultiVar) isCategory() {}
func (MultiNet) isCategory() {}

// Categories resolves the display structure for the question type.
// Open numeric questions derive their rows from the data and return nil.
func (q Question) Categories() ([]Category, error) {
	if q.QuestionType == OpenNumeric {
		return nil, nil
	}
	out := make([]Category, 0, len(q.DisplayStructure))
	for i, d := range q.DisplayStructure {
		c, err := resolve(q.QuestionType, d)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i+1, d.Label, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// MultiColumns returns the columns named by the plain code entries of a
// multi-select question, in display order.
func (q Question) MultiColumns() []string {
	if q.QuestionType != Multi {
		return nil
	}
	var cols []string
	for _, d := range q.DisplayStructure {
		if d.Kind != KindCode {
			continue
		}
		var col string
		if err := json.Unmarshal(d.Payload, &col); err == nil {
			cols = append(cols, col)
		}
	}
	return cols
}

func resolve(t Type, d Descriptor) (Category, error) {
	if p := bytes.TrimSpace(d.Payload); len(p) == 0 || bytes.Equal(p, []byte("null")) {
		return nil, fmt.Errorf("%w: missing code(s)", ErrMalformedStructure)
	}
	switch t {
	case Single:
		switch d.Kind {
		case KindCode:
			v, err := scalar(d.Payload)
			if err != nil {
				return nil, err
			}
			return Code{Name: d.Label, Value: v}, nil
		case KindNet:
			var raw []json.RawMessage
			if err := json.Unmarshal(d.Payload, &raw); err != nil {
				return nil, fmt.Errorf("%w: net payload must be a list of codes, got %s", ErrMalformedStructure, string(d.Payload))
			}
			vals := make([]dataset.Value, 0, len(raw))
			for _, r := range raw {
				v, err := scalar(r)
				if err != nil {
					return nil, err
				}
				vals = append(vals, v)
			}
			return CodeNet{Name: d.Label, Values: vals}, nil
		}
	case Multi:
		switch d.Kind {
		case KindCode:
			var col string
			if err := json.Unmarshal(d.Payload, &col); err != nil {
				return nil, fmt.Errorf("%w: multi code payload must be a column name, got %s", ErrMalformedStructure, string(d.Payload))
			}
			return MultiVar{Name: d.Label, Column: col}, nil
		case KindNet:
			var cols []string
			if err := json.Unmarshal(d.Payload, &cols); err != nil {
				return nil, fmt.Errorf("%w: multi net payload must be a list of column names, got %s", ErrMalformedStructure, string(d.Payload))
			}
			return MultiNet{Name: d.Label, Columns: cols}, nil
		}
	default:
		return nil, fmt.Errorf("unknown question type %q", t)
	}
	return nil, fmt.Errorf("%w: entry type must be %q or %q, got %q", ErrMalformedStructure, KindCode, KindNet, d.Kind)
}

// scalar decodes a response code: a JSON number or string.
func scalar(raw json.RawMessage) (dataset.Value, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return dataset.Null, fmt.Errorf("%w: code must not be null", ErrMalformedStructure)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return dataset.Num(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return dataset.Str(s), nil
	}
	return dataset.Null, fmt.Errorf("%w: code must be a number or string, got %s", ErrMalformedStructure, string(raw))
}
