package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bannerFile string

var bannerCmd = &cobra.Command{
	Use:   "banner",
	Short: "Inspect banner segments",
}

var bannerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective banner segments",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		segs, err := loadSegments(c, bannerFile)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, s := range segs {
			cond := s.Condition
			if cond == "" {
				cond = "(all respondents)"
			}
			fmt.Fprintf(w, "- %s: %s -- %s\n", s.ID, s.Label, cond)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bannerCmd)
	bannerCmd.AddCommand(bannerListCmd)
	bannerListCmd.Flags().StringVarP(&bannerFile, "banners", "b", "", "YAML banner definition; overrides banners_file")
}
