package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/question"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

var (
	qVar       string
	qText      string
	qBaseText  string
	qStructure string
	qFilter    string
	qType      string
	qMeanVar   string
	qSigma     bool
)

var questionCmd = &cobra.Command{
	Use:     "question",
	Aliases: []string{"q"},
	Short:   "Manage question definitions",
}

var questionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions in report order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd, func(repo question.Repository) error {
			qs, err := repo.List(commandContext(cmd))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(qs) == 0 {
				fmt.Fprintln(w, "(no questions)")
				return nil
			}
			for i, q := range qs {
				fmt.Fprintf(w, "%3d. [%d] %s (%s): %s\n", i+1, q.ID, q.QuestionVar, q.QuestionType, q.QuestionText)
			}
			return nil
		})
	},
}

var questionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one question definition as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withRepository(cmd, func(repo question.Repository) error {
			q, err := repo.Get(commandContext(cmd), id)
			if err != nil {
				return err
			}
			b, err := utils.PrettyJSON(q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		})
	},
}

var questionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a question (id is assigned automatically)",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := question.Question{
			QuestionVar:  question.ParseVars(qVar),
			QuestionText: qText,
			BaseText:     qBaseText,
			BaseFilter:   strings.TrimSpace(qFilter),
			QuestionType: question.Type(strings.ToLower(qType)),
			MeanVar:      strings.TrimSpace(qMeanVar),
			ShowSigma:    qSigma,
		}
		if strings.TrimSpace(qStructure) == "" {
			q.DisplayStructure = question.DefaultDisplayStructure()
		} else {
			ds, err := question.ParseDisplayStructure(qStructure)
			if err != nil {
				return err
			}
			q.DisplayStructure = ds
		}
		return withRepository(cmd, func(repo question.Repository) error {
			saved, err := repo.Upsert(commandContext(cmd), q)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Question %d added: %s\n", saved.ID, saved.QuestionVar)
			return nil
		})
	},
}

var questionEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an existing question; unset flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withRepository(cmd, func(repo question.Repository) error {
			ctx := commandContext(cmd)
			q, err := repo.Get(ctx, id)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("var") {
				q.QuestionVar = question.ParseVars(qVar)
			}
			if f.Changed("text") {
				q.QuestionText = qText
			}
			if f.Changed("base-text") {
				q.BaseText = qBaseText
			}
			if f.Changed("structure") {
				ds, err := question.ParseDisplayStructure(qStructure)
				if err != nil {
					return err
				}
				q.DisplayStructure = ds
			}
			if f.Changed("filter") {
				q.BaseFilter = strings.TrimSpace(qFilter)
			}
			if f.Changed("type") {
				q.QuestionType = question.Type(strings.ToLower(qType))
			}
			if f.Changed("mean-var") {
				q.MeanVar = strings.TrimSpace(qMeanVar)
			}
			if f.Changed("sigma") {
				q.ShowSigma = qSigma
			}
			if _, err := repo.Upsert(ctx, q); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Question %d updated\n", q.ID)
			return nil
		})
	},
}

var questionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a question",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withRepository(cmd, func(repo question.Repository) error {
			if err := repo.Delete(commandContext(cmd), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Question %d deleted\n", id)
			return nil
		})
	},
}

var questionImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Append question definitions from a JSON file, renumbering their ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		var incoming []question.Question
		if err := json.Unmarshal(b, &incoming); err != nil {
			return fmt.Errorf("parse import file %s: %w", args[0], err)
		}
		if len(incoming) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠ Import file has no questions")
			return nil
		}
		return withRepository(cmd, func(repo question.Repository) error {
			added, err := question.Import(commandContext(cmd), repo, incoming)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d questions (ids %d-%d)\n",
				len(added), added[0].ID, added[len(added)-1].ID)
			return nil
		})
	},
}

func withRepository(cmd *cobra.Command, fn func(question.Repository) error) error {
	c, err := settings()
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer closeRepo()
	return fn(repo)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid question id: %s", s)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(questionCmd)
	questionCmd.AddCommand(questionListCmd, questionShowCmd, questionAddCmd, questionEditCmd, questionDeleteCmd, questionImportCmd)

	for _, c := range []*cobra.Command{questionAddCmd, questionEditCmd} {
		c.Flags().StringVar(&qVar, "var", "", "question variable; comma-separated list for multi-select")
		c.Flags().StringVar(&qText, "text", "", "question text")
		c.Flags().StringVar(&qBaseText, "base-text", "", "base description printed as 'Base: ...'")
		c.Flags().StringVar(&qStructure, "structure", "", `display structure JSON, e.g. [["code","Male",1],["net","All",[1,2]]]`)
		c.Flags().StringVar(&qFilter, "filter", "", "base filter, e.g. 'vboost == 1'")
		c.Flags().StringVar(&qType, "type", string(question.Single), "question type: single | multi | open_numeric")
		c.Flags().StringVar(&qMeanVar, "mean-var", "", "numeric variable for Mean/Std/Median rows")
		c.Flags().BoolVar(&qSigma, "sigma", true, "show No Answer and Sigma rows")
	}
}
