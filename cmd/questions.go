package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the assessment questions and their keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		catalog := questionnaire.Default()

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(catalog.Sections)
		}

		fmt.Println(catalog.Title)
		for _, sec := range catalog.Sections {
			fmt.Println()
			fmt.Println(sec.Title)
			fmt.Println(strings.Repeat("─", 60))
			for _, q := range sec.Questions {
				fmt.Printf("%-24s  %s\n", q.Key, q.Prompt)
			}
		}
		fmt.Printf("\nAnswers: %q, %q, or empty (counted as No).\n", questionnaire.Yes, questionnaire.No)
		return nil
	},
}

func init() {
	questionsCmd.Flags().Bool("json", false, "Print the sections as JSON")
}
