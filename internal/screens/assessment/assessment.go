package assessment

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/router"
	"github.com/abhisek/carescreen/internal/screen"
	"github.com/abhisek/carescreen/internal/ui/components"
	"github.com/abhisek/carescreen/internal/ui/layout"
	"github.com/abhisek/carescreen/internal/ui/theme"
	"github.com/abhisek/carescreen/internal/wizard"
)

// AssessmentScreen lists the ten questions grouped by section. Each change
// is recorded on the session immediately; Submit moves on to Results.
type AssessmentScreen struct {
	session  *wizard.Session
	rows     []components.ChoiceRow
	sections []string // section title of each row
	cursor   int      // len(rows) means the Submit button
}

var _ screen.Screen = (*AssessmentScreen)(nil)

// New creates an AssessmentScreen showing the session's current answers.
func New(catalog *questionnaire.Catalog, sess *wizard.Session) *AssessmentScreen {
	answers := sess.Answers()
	s := &AssessmentScreen{session: sess}
	for _, sec := range catalog.Sections {
		for _, q := range sec.Questions {
			s.rows = append(s.rows, components.NewChoiceRow(q.Key, q.Prompt, answers.Get(q.Key)))
			s.sections = append(s.sections, sec.Title)
		}
	}
	return s
}

func (s *AssessmentScreen) Init() tea.Cmd {
	return nil
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k", "shift+tab":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j", "tab":
		if s.cursor < len(s.rows) {
			s.cursor++
		}
	case "right", "l", "space":
		s.set(s.onRow(components.ChoiceRow.Next))
	case "left", "h":
		s.set(s.onRow(components.ChoiceRow.Prev))
	case "y":
		s.set(s.onRow(withAnswer(questionnaire.Yes)))
	case "n":
		s.set(s.onRow(withAnswer(questionnaire.No)))
	case "enter":
		if s.cursor == len(s.rows) {
			return s, func() tea.Msg {
				return router.ActionMsg{Action: wizard.Submit}
			}
		}
		s.cursor++
	}
	return s, nil
}

func withAnswer(a questionnaire.Answer) func(components.ChoiceRow) components.ChoiceRow {
	return func(r components.ChoiceRow) components.ChoiceRow {
		return r.With(a)
	}
}

// onRow applies f to the focused row. It reports false on the button.
func (s *AssessmentScreen) onRow(f func(components.ChoiceRow) components.ChoiceRow) (components.ChoiceRow, bool) {
	if s.cursor >= len(s.rows) {
		return components.ChoiceRow{}, false
	}
	return f(s.rows[s.cursor]), true
}

// set records the focused row's new answer and keeps it only if the
// session accepts it.
func (s *AssessmentScreen) set(row components.ChoiceRow, ok bool) {
	if !ok {
		return
	}
	if err := s.session.RecordAnswer(row.Key, row.Value); err != nil {
		return
	}
	s.rows[s.cursor] = row
}

func (s *AssessmentScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	var lines []string
	focusLine := 0
	for i, row := range s.rows {
		if i == 0 || s.sections[i] != s.sections[i-1] {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, theme.Heading.Render(s.sections[i]))
		}
		row.Focused = i == s.cursor
		if row.Focused {
			focusLine = len(lines)
		}
		lines = append(lines, strings.Split(row.View(cw), "\n")...)
	}

	lines = append(lines, "")
	if s.cursor == len(s.rows) {
		focusLine = len(lines)
	}
	for _, a := range wizard.Actions(wizard.Assessment) {
		lines = append(lines, components.NewButton(a.Label(), s.cursor == len(s.rows)).View())
	}

	content := layout.Window(strings.Join(lines, "\n"), height, focusLine)
	return lipgloss.NewStyle().Padding(0, 2).Render(content)
}

func (s *AssessmentScreen) Title() string {
	return "Assessment"
}

func (s *AssessmentScreen) Page() wizard.Page {
	return wizard.Assessment
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Question"},
		{Key: "←→", Description: "Answer"},
		{Key: "y/n", Description: "Yes/No"},
		{Key: "Enter", Description: "Next / Submit"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
