package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/banner"
	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

var (
	initClient string
	initStudy  string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a study directory with a banner file and an empty question list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
		c, err := settings()
		if err != nil {
			return err
		}
		bannersPath := filepath.Join(dir, "banners.yaml")
		questionsPath := filepath.Join(dir, "questions_master.json")
		configPath := filepath.Join(dir, "config.yaml")
		// Refuse to overwrite an existing study.
		for _, p := range []string{bannersPath, questionsPath, configPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists; refusing to initialize study", p)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("stat %s: %w", p, err)
			}
		}

		if err := banner.WriteFile(bannersPath, banner.Defaults()); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(questionsPath, []byte("[]\n")); err != nil {
			return err
		}
		study := *c
		study.BannersFile = bannersPath
		study.QuestionsFile = questionsPath
		study.SQLitePath = filepath.Join(dir, "questions.db")
		study.OutputDir = dir
		if initClient != "" {
			study.ClientName = initClient
		}
		if initStudy != "" {
			study.StudyName = initStudy
		}
		if err := cfgpkg.Save(&study, configPath); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "✓ Study initialized: %s\n", dir)
		fmt.Fprintf(w, "  Use it with: tabloom --config %s question add ...\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initClient, "client", "", "client name for the study config")
	initCmd.Flags().StringVar(&initStudy, "study", "", "study name for the study config")
}
