package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// LatestFileName is the fixed-name copy read by downstream tooling.
const LatestFileName = "tabs_output.csv"

// OutputFileName returns "<prefix>_Output_Tab_<MMDDYYYY>.csv".
func OutputFileName(prefix string, date time.Time) string {
	return fmt.Sprintf("%s_Output_Tab_%s.csv", prefix, date.Format("01022006"))
}

// DefaultPrefix derives the output prefix from the study name: its first
// word, e.g. "DTV-010" for "DTV-010 Feature Prioritization".
func DefaultPrefix(study string) string {
	if f := strings.Fields(study); len(f) > 0 {
		return f[0]
	}
	return "tabloom"
}

// Encode renders g as CSV without a header row.
func Encode(g Grid) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(g); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFiles encodes g once and writes it atomically to each name under dir.
// It returns the written paths.
func WriteFiles(dir string, g Grid, names ...string) ([]string, error) {
	data, err := Encode(g)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure output dir: %w", err)
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := utils.SafeWriteFile(p, data); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
