package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/banner"
	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
	"github.com/KaramelBytes/tabloom-cli/internal/logging"
	"github.com/KaramelBytes/tabloom-cli/internal/question"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Process logger, rebuilt once the config is known
	logger = logging.New(os.Stderr, false, "")
)

var rootCmd = &cobra.Command{
	Use:   "tabloom",
	Short: "Tabloom CLI: survey banner tables from respondent data",
	Long: `Tabloom tabulates respondent-level survey data into banner tables: counts and
percentages per response category for every question across a row of banner
segments, written as the paged CSV report used for market-research deliverables.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults where they can
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		logger = logging.New(os.Stderr, debug, "")
		return
	}
	cfg = c
	logger = logging.New(os.Stderr, debug, cfg.LogFormat)
}

// settings returns the loaded configuration, loading it on demand.
func settings() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// commandContext attaches the process logger to the command's context.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx)
}

// openRepository returns the configured question store. The returned close
// function must be called when done.
func openRepository(c *cfgpkg.Global) (question.Repository, func() error, error) {
	switch c.QuestionStore {
	case cfgpkg.StoreSQLite:
		s, err := question.OpenSQLite(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return question.NewJSONStore(c.QuestionsFile), func() error { return nil }, nil
	}
}

// loadSegments returns the banner from banners_file, or the built-in default.
func loadSegments(c *cfgpkg.Global, override string) ([]banner.Segment, error) {
	path := c.BannersFile
	if override != "" {
		path = override
	}
	return banner.Load(path)
}

// datasetOptions maps the configuration onto loader options. Every column
// except the configured text columns is coerced to numeric.
func datasetOptions(c *cfgpkg.Global, sheet string) dataset.Options {
	opt := dataset.DefaultOptions()
	opt.CoerceNumeric = true
	if c.TextColumns != nil {
		opt.TextColumns = c.TextColumns
	}
	if c.IndexColumns != nil {
		opt.IndexColumns = c.IndexColumns
	}
	opt.Sheet = c.SheetName
	if sheet != "" {
		opt.Sheet = sheet
	}
	return opt
}
