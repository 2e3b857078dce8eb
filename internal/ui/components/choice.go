package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/ui/theme"
)

// ChoiceRow is one question with its "" / No / Yes options laid out on a
// single line. ←/→ handling is done by the owning screen through Next and
// Prev so every change is recorded as it happens.
type ChoiceRow struct {
	Key     questionnaire.Key
	Prompt  string
	Value   questionnaire.Answer
	Focused bool
}

// NewChoiceRow creates a row showing value.
func NewChoiceRow(key questionnaire.Key, prompt string, value questionnaire.Answer) ChoiceRow {
	return ChoiceRow{Key: key, Prompt: prompt, Value: value}
}

// Next selects the option to the right, wrapping around.
func (c ChoiceRow) Next() ChoiceRow {
	c.Value = c.Value.Next()
	return c
}

// Prev selects the option to the left, wrapping around.
func (c ChoiceRow) Prev() ChoiceRow {
	c.Value = c.Value.Prev()
	return c
}

// With selects a.
func (c ChoiceRow) With(a questionnaire.Answer) ChoiceRow {
	c.Value = a
	return c
}

// View renders the prompt wrapped to width and the options beneath it.
func (c ChoiceRow) View(width int) string {
	prefix := "  "
	promptStyle := theme.Unselected
	if c.Focused {
		prefix = "▸ "
		promptStyle = theme.Selected
	}

	prompt := lipgloss.NewStyle().Width(width - 2).Render(c.Prompt)
	prompt = promptStyle.Render(prompt)
	lines := strings.Split(prompt, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = "  " + lines[i]
		}
	}

	opts := make([]string, 0, len(questionnaire.Options))
	for _, opt := range questionnaire.Options {
		label := string(opt)
		if opt == questionnaire.Unanswered {
			label = "-"
		}
		if opt == c.Value {
			opts = append(opts, theme.Selected.Render("("+label+")"))
		} else {
			opts = append(opts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(" "+label+" "))
		}
	}

	return strings.Join(lines, "\n") + "\n    " + strings.Join(opts, "  ")
}

// Height returns how many lines View(width) occupies.
func (c ChoiceRow) Height(width int) int {
	return lipgloss.Height(c.View(width))
}
