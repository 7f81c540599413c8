package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
)

var (
	inspOutputPath string
	inspSheet      string
	inspRaw        bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <datafile>",
	Short: "Summarise the columns of a respondent data file",
	Long: `Loads a respondent file the same way generate does and prints a Markdown
summary: row and column counts and, per column, the kind of content, missing
cells, distinct values and the numeric range. Use it to check variable names
before writing filters and banner conditions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		opt := datasetOptions(c, inspSheet)
		if inspRaw {
			opt.CoerceNumeric = false
		}
		tbl, err := dataset.Load(args[0], opt)
		if err != nil {
			return err
		}
		md := inspectMarkdown(tbl)
		if inspOutputPath != "" {
			if err := os.WriteFile(inspOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", inspOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func inspectMarkdown(t *dataset.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Name)
	fmt.Fprintf(&b, "- Rows: %s\n- Columns: %s\n\n", humanize.Comma(int64(t.Len())), humanize.Comma(int64(len(t.Columns()))))
	b.WriteString("| Column | Kind | Missing | Distinct | Min | Max |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, p := range dataset.Profile(t) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			p.Name, p.Kind(), humanize.Comma(int64(p.Missing)), humanize.Comma(int64(p.Distinct)),
			formatBound(p.Min), formatBound(p.Max))
	}
	return b.String()
}

func formatBound(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return dataset.FormatNumber(f)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	inspectCmd.Flags().StringVar(&inspSheet, "sheet", "", "XLSX: worksheet name (default first sheet)")
	inspectCmd.Flags().BoolVar(&inspRaw, "raw", false, "infer column kinds instead of coercing non-text columns to numbers")
}
