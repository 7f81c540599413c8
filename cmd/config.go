package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Tabloom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "client_name: %s\n", c.ClientName)
		fmt.Fprintf(w, "study_name: %s\n", c.StudyName)
		fmt.Fprintf(w, "data_file: %s\n", c.DataFile)
		if c.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(w, "index_columns: %s\n", strings.Join(c.IndexColumns, ","))
		fmt.Fprintf(w, "text_columns: %s\n", strings.Join(c.TextColumns, ","))
		fmt.Fprintf(w, "question_store: %s\n", c.QuestionStore)
		if c.QuestionStore == cfgpkg.StoreSQLite {
			fmt.Fprintf(w, "sqlite_path: %s\n", c.SQLitePath)
		} else {
			fmt.Fprintf(w, "questions_file: %s\n", c.QuestionsFile)
		}
		if c.BannersFile != "" {
			fmt.Fprintf(w, "banners_file: %s\n", c.BannersFile)
		}
		fmt.Fprintf(w, "output_dir: %s\n", c.OutputDir)
		if c.OutputPrefix != "" {
			fmt.Fprintf(w, "output_prefix: %s\n", c.OutputPrefix)
		}
		fmt.Fprintf(w, "latest_output_name: %s\n", c.LatestOutputName)
		fmt.Fprintf(w, "workers: %d\n", c.Workers)
		fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
