package feedback

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

const maxFeedbackLen = 500

// FeedbackScreen collects free-text feedback. The text is not kept:
// submitting returns Home with a thank-you notice.
type FeedbackScreen struct {
	catalog *questionnaire.Catalog
	input   components.TextInput
}

var _ screen.Screen = (*FeedbackScreen)(nil)

// New creates a FeedbackScreen.
func New(catalog *questionnaire.Catalog) *FeedbackScreen {
	return &FeedbackScreen{
		catalog: catalog,
		input:   components.NewTextInput("Type here...", maxFeedbackLen, 0),
	}
}

func (f *FeedbackScreen) Init() tea.Cmd {
	return f.input.Init()
}

func (f *FeedbackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		notice := f.catalog.Feedback.Thanks
		return f, func() tea.Msg {
			return router.ActionMsg{Action: wizard.SubmitFeedback, Notice: notice}
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// Text returns what has been typed so far.
func (f *FeedbackScreen) Text() string {
	return f.input.Value()
}

func (f *FeedbackScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	f.input.Model.SetWidth(cw - 4)

	var sections []string
	sections = append(sections, theme.Title.Render(f.catalog.Feedback.Heading))
	sections = append(sections, theme.Body.Render(lipgloss.NewStyle().Width(cw).Render(f.catalog.Feedback.Prompt)))
	sections = append(sections, theme.Card.Width(cw).Render(f.input.View()))
	for _, a := range wizard.Actions(wizard.Feedback) {
		sections = append(sections, components.NewButton(a.Label(), true).View())
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(sections, "\n\n"))
}

func (f *FeedbackScreen) Title() string {
	return "Feedback"
}

func (f *FeedbackScreen) Page() wizard.Page {
	return wizard.Feedback
}

func (f *FeedbackScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit Feedback"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
