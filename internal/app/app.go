package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/riskmodel"
	"github.com/abhisek/carescreen/internal/router"
	"github.com/abhisek/carescreen/internal/screen"
	"github.com/abhisek/carescreen/internal/screens/assessment"
	"github.com/abhisek/carescreen/internal/screens/feedback"
	"github.com/abhisek/carescreen/internal/screens/home"
	"github.com/abhisek/carescreen/internal/screens/results"
	"github.com/abhisek/carescreen/internal/suggest"
	"github.com/abhisek/carescreen/internal/ui/layout"
	"github.com/abhisek/carescreen/internal/wizard"
)

// Options holds the services the screens need.
type Options struct {
	Catalog   *questionnaire.Catalog
	Model     *riskmodel.Model
	Suggester *suggest.Service
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// NewAppModel creates an AppModel showing sess's current page.
func NewAppModel(sess *wizard.Session, opts Options) AppModel {
	if opts.Catalog == nil {
		opts.Catalog = questionnaire.Default()
	}
	if opts.Model == nil {
		opts.Model = riskmodel.Default()
	}
	return AppModel{
		router: router.New(sess, factory(opts)),
	}
}

// factory maps each page to its screen.
func factory(opts Options) router.Factory {
	return func(page wizard.Page, sess *wizard.Session, notice string) screen.Screen {
		switch page {
		case wizard.Assessment:
			return assessment.New(opts.Catalog, sess)
		case wizard.Results:
			return results.New(opts.Catalog, opts.Model, opts.Suggester, sess)
		case wizard.Feedback:
			return feedback.New(opts.Catalog)
		default:
			return home.New(opts.Catalog, notice)
		}
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			return m, func() tea.Msg { return router.ResetMsg{} }
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// Session returns the session the program drives.
func (m AppModel) Session() *wizard.Session {
	return m.router.Session()
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	answered := m.router.Session().Answers().Answered()
	header := layout.RenderHeader(active.Title(), answered, questionnaire.NumKeys, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+R", Description: "Start over"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+R", Description: "Start over"})
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, sess *wizard.Session, opts Options) error {
	p := tea.NewProgram(NewAppModel(sess, opts), tea.WithContext(ctx))
	_, err := p.Run()
	switch {
	case err == nil, errors.Is(err, tea.ErrInterrupted):
		return nil
	case errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil:
		return nil
	default:
		return fmt.Errorf("run terminal ui: %w", err)
	}
}
