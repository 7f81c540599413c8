// Package banner defines the column segments of a banner table. Each segment
// is a named respondent subset, evaluated after a question's base filter.
package banner

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabloom-cli/internal/filter"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// Segment is one banner column. An empty Condition selects every row.
type Segment struct {
	ID        string `yaml:"id" json:"id"`
	Label     string `yaml:"label" json:"label"`
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// Header is the crosstab column title, e.g. "B (Gen Pop Sample)".
func (s Segment) Header() string {
	return fmt.Sprintf("%s (%s)", s.ID, s.Label)
}

// Defaults returns the standard six-column banner.
func Defaults() []Segment {
	return []Segment{
		{ID: "A", Label: "Total"},
		{ID: "B", Label: "Gen Pop Sample", Condition: "vboost == 1"},
		{ID: "C", Label: "MVPD Users", Condition: "hMVPD == 2"},
		{ID: "D", Label: "vMVPD Users", Condition: vmvpdCondition()},
		{ID: "E", Label: "Male", Condition: "hGender == 1 and vboost == 1"},
		{ID: "F", Label: "Female", Condition: "hGender == 2 and vboost == 1"},
	}
}

func vmvpdCondition() string {
	parts := make([]string, 9)
	for i := range parts {
		parts[i] = fmt.Sprintf("S6r%d == 1", i+1)
	}
	return strings.Join(parts, " or ")
}

type file struct {
	Segments []Segment `yaml:"segments"`
}

// LoadFile reads segments from a YAML file of the form
//
//	segments:
//	  - id: A
//	    label: Total
//	  - id: B
//	    label: Gen Pop Sample
//	    condition: vboost == 1
func LoadFile(path string) ([]Segment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read banners: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse banners %s: %w", path, err)
	}
	if err := Validate(f.Segments); err != nil {
		return nil, fmt.Errorf("banners %s: %w", path, err)
	}
	return f.Segments, nil
}

// WriteFile saves segs in the layout LoadFile reads.
func WriteFile(path string, segs []Segment) error {
	if err := Validate(segs); err != nil {
		return err
	}
	b, err := yaml.Marshal(file{Segments: segs})
	if err != nil {
		return fmt.Errorf("marshal banners: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// Load returns the segments from path, or Defaults when path is empty.
func Load(path string) ([]Segment, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}
	return LoadFile(path)
}

// Validate requires at least one segment, unique non-empty ids, a label on
// every segment and a parseable condition.
func Validate(segs []Segment) error {
	if len(segs) == 0 {
		return errors.New("no banner segments defined")
	}
	seen := make(map[string]bool, len(segs))
	for i, s := range segs {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return fmt.Errorf("segment %d: id is required", i+1)
		}
		if seen[id] {
			return fmt.Errorf("segment %d: duplicate id %q", i+1, id)
		}
		seen[id] = true
		if strings.TrimSpace(s.Label) == "" {
			return fmt.Errorf("segment %s: label is required", id)
		}
		if _, err := filter.Parse(s.Condition); err != nil {
			return fmt.Errorf("segment %s: condition: %w", id, err)
		}
	}
	return nil
}
