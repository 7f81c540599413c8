package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
	"github.com/KaramelBytes/tabloom-cli/internal/report"
)

var (
	genDataFile string
	genSheet    string
	genBanners  string
	genOutDir   string
	genPrefix   string
	genClient   string
	genStudy    string
	genWorkers  int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Tabulate every question and write the banner-table report",
	Long: `Loads the respondent data, computes the crosstab of every defined question
against the banner segments and writes the report twice: a dated
<prefix>_Output_Tab_<MMDDYYYY>.csv and the fixed-name latest copy.
Nothing is written if any table fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		dataFile := c.DataFile
		if genDataFile != "" {
			dataFile = genDataFile
		}
		if dataFile == "" {
			return fmt.Errorf("no data file: pass --data or set data_file")
		}
		segments, err := loadSegments(c, genBanners)
		if err != nil {
			return err
		}
		repo, closeRepo, err := openRepository(c)
		if err != nil {
			return err
		}
		defer closeRepo()

		tbl, err := dataset.Load(dataFile, datasetOptions(c, genSheet))
		if err != nil {
			return fmt.Errorf("load data: %w", err)
		}
		logger.Debug().Str("file", dataFile).Int("rows", tbl.Len()).Int("columns", len(tbl.Columns())).Msg("respondent data loaded")

		meta := report.Metadata{Client: c.ClientName, Study: c.StudyName, Date: time.Now()}
		if genClient != "" {
			meta.Client = genClient
		}
		if genStudy != "" {
			meta.Study = genStudy
		}
		out := report.Output{Dir: c.OutputDir, Prefix: c.OutputPrefix, Latest: c.LatestOutputName}
		if genOutDir != "" {
			out.Dir = genOutDir
		}
		if genPrefix != "" {
			out.Prefix = genPrefix
		}
		workers := c.Workers
		if cmd.Flags().Changed("workers") {
			workers = genWorkers
		}

		gen := &report.Generator{Repo: repo, Segments: segments, Workers: workers}
		res, err := gen.Generate(ctx, tbl, meta, out)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if res.Tables == 0 {
			fmt.Fprintln(w, "⚠ No questions defined; nothing to save. Add questions with 'tabloom question add' or 'tabloom question import'.")
			return nil
		}
		fmt.Fprintf(w, "✓ Tabulated %s tables over %s respondents (%s report rows)\n",
			humanize.Comma(int64(res.Tables)), humanize.Comma(int64(tbl.Len())), humanize.Comma(int64(res.Rows)))
		for _, f := range res.Files {
			fmt.Fprintf(w, "✓ Output saved to %s\n", filepath.Clean(f))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&genDataFile, "data", "d", "", "respondent data file (.csv, .tsv, .xlsx); overrides data_file")
	generateCmd.Flags().StringVar(&genSheet, "sheet", "", "XLSX: worksheet name (default first sheet)")
	generateCmd.Flags().StringVarP(&genBanners, "banners", "b", "", "YAML banner definition; overrides banners_file")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", "", "output directory; overrides output_dir")
	generateCmd.Flags().StringVar(&genPrefix, "prefix", "", "output file prefix (default first word of the study name)")
	generateCmd.Flags().StringVar(&genClient, "client", "", "client name printed on every table")
	generateCmd.Flags().StringVar(&genStudy, "study", "", "study name printed on every table")
	generateCmd.Flags().IntVar(&genWorkers, "workers", 0, "concurrent crosstabs (0 = one per CPU)")
}
