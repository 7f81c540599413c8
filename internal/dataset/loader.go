package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates no loader handles the file extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options controls how a respondent file is turned into a Table.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// Sheet selects the XLSX worksheet by name; empty means the first sheet.
	Sheet string
	// TextColumns are never converted to numbers.
	TextColumns []string
	// IndexColumns order the rows after loading (e.g. record, uuid).
	IndexColumns []string
	// CoerceNumeric turns every non-text column numeric, replacing cells that
	// are not plain numbers ("1,5", "12%") with missing. When false a column
	// becomes numeric only if all of its non-blank cells parse as numbers,
	// locale and percent forms included.
	CoerceNumeric bool
	// DecimalSeparator enables locale-aware parsing with a fixed separator,
	// also under CoerceNumeric. If 0, inference auto-detects per value.
	DecimalSeparator rune
}

// DefaultOptions mirrors the layout of the usual survey exports.
func DefaultOptions() Options {
	return Options{
		TextColumns:  []string{"date", "markers", "record", "uuid"},
		IndexColumns: []string{"record", "uuid"},
	}
}

// Loader reads the raw header and records of a respondent file.
type Loader interface {
	CanLoad(path string) bool
	Read(path string, opt Options) (header []string, records [][]string, err error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// Load selects a loader by extension and builds a Table.
func Load(path string, opt Options) (*Table, error) {
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		header, records, err := l.Read(path, opt)
		if err != nil {
			return nil, err
		}
		return Build(filepath.Base(path), header, records, opt)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = "(none)"
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// Build converts raw string records into typed values following opt.
func Build(name string, header []string, records [][]string, opt Options) (*Table, error) {
	ncol := len(header)
	text := make(map[string]bool, len(opt.TextColumns))
	for _, c := range opt.TextColumns {
		text[strings.TrimSpace(c)] = true
	}
	numeric := make([]bool, ncol)
	for j := 0; j < ncol; j++ {
		if text[strings.TrimSpace(header[j])] {
			continue
		}
		if opt.CoerceNumeric {
			numeric[j] = true
			continue
		}
		numeric[j] = columnIsNumeric(records, j, opt)
	}
	rows := make([][]Value, len(records))
	for i, rec := range records {
		if len(rec) > ncol {
			rec = rec[:ncol]
		}
		row := make([]Value, ncol)
		for j, raw := range rec {
			s := strings.TrimSpace(raw)
			if isNullToken(s) {
				continue
			}
			if !numeric[j] {
				row[j] = Str(s)
				continue
			}
			if f, ok := coerce(s, opt); ok {
				row[j] = Num(f)
			}
		}
		rows[i] = row
	}
	t, err := NewTable(name, header, rows)
	if err != nil {
		return nil, fmt.Errorf("build table %s: %w", name, err)
	}
	t.SortBy(opt.IndexColumns...)
	return t, nil
}

// coerce converts a cell of a numeric column.
func coerce(s string, opt Options) (float64, bool) {
	if opt.CoerceNumeric && opt.DecimalSeparator == 0 {
		return parsePlain(s)
	}
	return parseNumeric(s, opt)
}

func columnIsNumeric(records [][]string, j int, opt Options) bool {
	seen := false
	for _, rec := range records {
		if j >= len(rec) {
			continue
		}
		s := strings.TrimSpace(rec[j])
		if isNullToken(s) {
			continue
		}
		if _, ok := parseNumeric(s, opt); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// isNullToken matches the blank and NA spellings survey exports use.
func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null", "#n/a", "none":
		return true
	}
	return false
}
