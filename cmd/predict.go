package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/carescreen/internal/config"
	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/riskmodel"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Classify one set of answers with the placeholder model",
	Example: "  carescreen predict --yes history_family,symptoms_lumps --no screening_mammogram\n" +
		"  carescreen predict --yes symptoms_pain --json",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetStringSlice("yes")
		no, _ := cmd.Flags().GetStringSlice("no")
		asJSON, _ := cmd.Flags().GetBool("json")

		answers, err := answersFromFlags(yes, no)
		if err != nil {
			return err
		}

		model, err := loadModel()
		if err != nil {
			return err
		}

		features := answers.Encode()
		label, err := model.Predict(features.Slice())
		if err != nil {
			return fmt.Errorf("predict: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Answers  questionnaire.AnswerSet `json:"answers"`
				Features []float64               `json:"features"`
				Class    int                     `json:"class"`
				Label    string                  `json:"label"`
			}{
				Answers:  answers,
				Features: features.Slice(),
				Class:    int(label),
				Label:    label.String(),
			})
		}

		catalog := questionnaire.Default()
		fmt.Println("Features")
		fmt.Println(strings.Repeat("─", 40))
		for i, k := range questionnaire.KeyNames() {
			fmt.Printf("%-24s  %-3s  %.0f\n", k, displayAnswer(answers.Get(questionnaire.Key(k))), features[i])
		}
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("Label: %s (class %d)\n\n", label, int(label))
		if label == riskmodel.HigherRisk {
			fmt.Println(catalog.Results.Higher)
		} else {
			fmt.Println(catalog.Results.Lower)
		}
		fmt.Println(catalog.Results.Caveat)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringSlice("yes", nil, "Question keys answered Yes")
	predictCmd.Flags().StringSlice("no", nil, "Question keys answered No")
	predictCmd.Flags().Bool("json", false, "Print the result as JSON")
}

// answersFromFlags builds an AnswerSet from --yes and --no key lists. A key
// given in both lists is rejected.
func answersFromFlags(yes, no []string) (questionnaire.AnswerSet, error) {
	raw := make(map[string]string, len(yes)+len(no))
	for _, k := range yes {
		raw[strings.TrimSpace(k)] = string(questionnaire.Yes)
	}
	for _, k := range no {
		k = strings.TrimSpace(k)
		if _, dup := raw[k]; dup {
			return questionnaire.AnswerSet{}, fmt.Errorf("key %q given as both yes and no", k)
		}
		raw[k] = string(questionnaire.No)
	}
	return questionnaire.FromMap(raw)
}

func displayAnswer(a questionnaire.Answer) string {
	if a == questionnaire.Unanswered {
		return "-"
	}
	return string(a)
}

// loadModel trains the placeholder model with the configured seed and size.
func loadModel() (*riskmodel.Model, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := riskmodel.Configure(cfg.ModelRows, cfg.ModelSeed); err != nil {
		return nil, fmt.Errorf("configure model: %w", err)
	}
	return riskmodel.Default(), nil
}
