package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Type selects the tabulation algorithm for a question.
type Type string

const (
	Single      Type = "single"
	Multi       Type = "multi"
	OpenNumeric Type = "open_numeric"
)

// Question is one banner-table definition.
type Question struct {
	ID               int              `json:"id" validate:"gte=0"`
	QuestionVar      Vars             `json:"question_var" validate:"min=1,dive,required"`
	QuestionText     string           `json:"question_text" validate:"required"`
	BaseText         string           `json:"base_text"`
	DisplayStructure DisplayStructure `json:"display_structure"`
	BaseFilter       string           `json:"base_filter"`
	QuestionType     Type             `json:"question_type" validate:"required,oneof=single multi open_numeric"`
	MeanVar          string           `json:"mean_var"`
	ShowSigma        bool             `json:"show_sigma"`
}

// Var returns the primary question variable.
func (q Question) Var() string {
	if len(q.QuestionVar) == 0 {
		return ""
	}
	return q.QuestionVar[0]
}

// UnmarshalJSON accepts the legacy file layout: null for an absent base
// filter or mean variable, and show_sigma defaulting to true when omitted.
func (q *Question) UnmarshalJSON(b []byte) error {
	type alias Question
	aux := struct {
		*alias
		BaseFilter *string `json:"base_filter"`
		MeanVar    *string `json:"mean_var"`
		ShowSigma  *bool   `json:"show_sigma"`
	}{alias: (*alias)(q)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	q.BaseFilter, q.MeanVar, q.ShowSigma = "", "", true
	if aux.BaseFilter != nil {
		q.BaseFilter = strings.TrimSpace(*aux.BaseFilter)
	}
	if aux.MeanVar != nil {
		q.MeanVar = strings.TrimSpace(*aux.MeanVar)
	}
	if aux.ShowSigma != nil {
		q.ShowSigma = *aux.ShowSigma
	}
	return nil
}

// MarshalJSON writes empty optional fields as null.
func (q Question) MarshalJSON() ([]byte, error) {
	type alias Question
	aux := struct {
		alias
		BaseFilter *string `json:"base_filter"`
		MeanVar    *string `json:"mean_var"`
	}{alias: alias(q)}
	if q.BaseFilter != "" {
		aux.BaseFilter = &q.BaseFilter
	}
	if q.MeanVar != "" {
		aux.MeanVar = &q.MeanVar
	}
	return json.Marshal(aux)
}

// Vars is the question variable: a single name, or a list for multi-select
// questions. It is documentation only for multi questions; lookups use the
// display structure.
type Vars []string

// ParseVars splits a comma-separated variable list.
func ParseVars(s string) Vars {
	var out Vars
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (v Vars) String() string { return strings.Join(v, ",") }

func (v *Vars) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*v = Vars{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("question_var must be a string or a list of strings")
	}
	*v = many
	return nil
}

func (v Vars) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	return json.Marshal([]string(v))
}

// ErrMalformedStructure marks a display structure that cannot be interpreted.
var ErrMalformedStructure = errors.New("malformed display structure")

// Descriptor kinds.
const (
	KindCode = "code"
	KindNet  = "net"
)

// Descriptor is one display-structure entry as persisted: ["code", "Male", 1]
// or ["net", "Top 2 Box", [1, 2]]. The payload is interpreted by Categories.
type Descriptor struct {
	Kind    string
	Label   string
	Payload json.RawMessage
}

// DisplayStructure is the ordered list of a question's output rows.
type DisplayStructure []Descriptor

func (d *Descriptor) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil || len(parts) != 3 {
		return fmt.Errorf("%w: each entry must be [type, label, code(s)], got %s", ErrMalformedStructure, string(b))
	}
	if err := json.Unmarshal(parts[0], &d.Kind); err != nil {
		return fmt.Errorf("%w: entry type must be a string, got %s", ErrMalformedStructure, string(parts[0]))
	}
	if err := json.Unmarshal(parts[1], &d.Label); err != nil {
		return fmt.Errorf("%w: entry label must be a string, got %s", ErrMalformedStructure, string(parts[1]))
	}
	d.Payload = append(json.RawMessage(nil), parts[2]...)
	return nil
}

func (d Descriptor) MarshalJSON() ([]byte, error) {
	payload := d.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return json.Marshal([]any{d.Kind, d.Label, payload})
}

// ParseDisplayStructure decodes the JSON text form used by the CLI.
func ParseDisplayStructure(s string) (DisplayStructure, error) {
	var ds DisplayStructure
	if err := json.Unmarshal([]byte(s), &ds); err != nil {
		if errors.Is(err, ErrMalformedStructure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedStructure,
			`expected JSON like [["code", "Label", 1], ["net", "Label", [1, 2]]]`)
	}
	return ds, nil
}

// DefaultDisplayStructure is the starting structure for a new question.
func DefaultDisplayStructure() DisplayStructure {
	ds, _ := ParseDisplayStructure(`[["code", "Male", 1], ["code", "Female", 2], ["net", "All Genders", [1, 2]]]`)
	return ds
}
