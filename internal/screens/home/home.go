package home

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

// HomeScreen shows the welcome copy, the educational resources and the
// Start Assessment button.
type HomeScreen struct {
	catalog *questionnaire.Catalog
	notice  string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. notice, when non-empty, is shown above the
// welcome text.
func New(catalog *questionnaire.Catalog, notice string) *HomeScreen {
	return &HomeScreen{catalog: catalog, notice: notice}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return h, func() tea.Msg {
			return router.ActionMsg{Action: wizard.StartAssessment}
		}
	}
	return h, nil
}

func (h *HomeScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	wrap := lipgloss.NewStyle().Width(cw)

	var sections []string
	if h.notice != "" {
		sections = append(sections, theme.Notice.Render(h.notice))
	}

	sections = append(sections, theme.Title.Render(wrap.Render(h.catalog.Title)))

	paragraphs := make([]string, 0, len(h.catalog.Welcome))
	for _, p := range h.catalog.Welcome {
		paragraphs = append(paragraphs, theme.Body.Render(wrap.Render(p)))
	}
	sections = append(sections, strings.Join(paragraphs, "\n\n"))

	resources := []string{theme.Heading.Render(h.catalog.ResourcesHeading)}
	for _, r := range h.catalog.Resources {
		resources = append(resources, "  • "+theme.Body.Render(r.Label)+"  "+theme.Link.Render(r.URL))
	}
	sections = append(sections, strings.Join(resources, "\n"))

	for _, a := range wizard.Actions(wizard.Home) {
		sections = append(sections, components.NewButton(a.Label(), true).View())
	}

	content := strings.Join(sections, "\n\n")
	content = layout.Window(content, height, lipgloss.Height(content)-1)
	return lipgloss.NewStyle().Padding(0, 2).Render(content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Page() wizard.Page {
	return wizard.Home
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start Assessment"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
