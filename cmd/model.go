package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Describe the placeholder decision tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel()
		if err != nil {
			return err
		}

		fmt.Printf("Samples:   %d\n", model.Samples())
		fmt.Printf("Features:  %s\n", strings.Join(questionnaire.KeyNames(), ", "))
		fmt.Printf("Training:  %.0f%% of rows reproduced\n", 100*model.TrainingAccuracy())
		fmt.Println()
		fmt.Print(model.Describe())
		fmt.Println()
		fmt.Println("Trained on random answers and random labels. The output carries no medical meaning.")
		return nil
	},
}
