package dataset

import (
	"math"
	"strconv"
)

// Kind identifies what a cell holds.
type Kind uint8

const (
	Missing Kind = iota
	Number
	Text
)

// Value is a single respondent cell: numeric, text, or missing.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Null is the missing value.
var Null = Value{}

// Num returns a numeric value. NaN is stored as missing.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Null
	}
	return Value{Kind: Number, Num: f}
}

// Str returns a text value.
func Str(s string) Value { return Value{Kind: Text, Str: s} }

func (v Value) IsMissing() bool { return v.Kind == Missing }

// Float returns the numeric content and whether the value is numeric.
func (v Value) Float() (float64, bool) {
	if v.Kind != Number {
		return 0, false
	}
	return v.Num, true
}

// Equal reports whether two values are the same number or the same text.
// Missing values are never equal to anything, including another missing value.
func (v Value) Equal(o Value) bool {
	switch {
	case v.Kind == Number && o.Kind == Number:
		return v.Num == o.Num
	case v.Kind == Text && o.Kind == Text:
		return v.Str == o.Str
	}
	return false
}

// IsOne reports whether the value is the numeric "selected" marker of a multi-select column.
func (v Value) IsOne() bool { return v.Kind == Number && v.Num == 1 }

func (v Value) String() string {
	switch v.Kind {
	case Number:
		return FormatNumber(v.Num)
	case Text:
		return v.Str
	}
	return ""
}

// FormatNumber renders f in the shortest form that round-trips (3, 2.5, -0.125).
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
