package suggest

import (
	"fmt"
	"strings"

	"github.com/abhisek/carescreen/internal/questionnaire"
)

const systemPrompt = `You write short, friendly general wellness suggestions for the results page of a breast health questionnaire.
You are not a clinician. Never diagnose, never estimate risk, never name a disease the person may have, and never recommend or discourage a specific treatment.
The risk label on the page comes from a demonstration model trained on random data, so do not refer to it.
When the answers mention symptoms, encourage talking to a healthcare provider without suggesting what the symptom means.`

func buildUserMessage(c *questionnaire.Catalog, answers questionnaire.AnswerSet) string {
	var b strings.Builder

	yes := answers.YesKeys()
	b.WriteString("The person answered Yes to:\n")
	if len(yes) == 0 {
		b.WriteString("- nothing\n")
	}
	for _, k := range yes {
		if q, ok := c.Question(k); ok {
			fmt.Fprintf(&b, "- %s\n", q.Prompt)
		}
	}
	fmt.Fprintf(&b, "\nQuestions left unanswered: %d of %d\n", questionnaire.NumKeys-answers.Answered(), questionnaire.NumKeys)

	b.WriteString(`
Instructions:
Give 3 to 5 suggestions. Each is one plain sentence of at most 12 words.
Cover everyday habits such as diet, activity, alcohol, smoking, self-checks and regular screenings.
Plain text only. No markdown, no numbering, no emojis.`)

	return b.String()
}
