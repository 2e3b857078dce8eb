package results

import (
	"context"
	"strings"
	"sync/atomic"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/carescreen/internal/metrics"
	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/riskmodel"
	"github.com/abhisek/carescreen/internal/router"
	"github.com/abhisek/carescreen/internal/screen"
	"github.com/abhisek/carescreen/internal/suggest"
	"github.com/abhisek/carescreen/internal/ui/components"
	"github.com/abhisek/carescreen/internal/ui/layout"
	"github.com/abhisek/carescreen/internal/ui/theme"
	"github.com/abhisek/carescreen/internal/wizard"
)

// visits numbers ResultsScreens so a reply meant for an earlier visit to
// Results is not shown on a later one.
var visits atomic.Uint64

// suggestionsMsg carries suggestions produced off the UI loop for the
// screen numbered visit.
type suggestionsMsg struct {
	visit  uint64
	result suggest.Result
}

// ResultsScreen shows the classifier's label, the caveat, the suggestion
// list and a chart of the encoded answers.
type ResultsScreen struct {
	catalog     *questionnaire.Catalog
	suggester   *suggest.Service
	answers     questionnaire.AnswerSet
	features    questionnaire.Features
	label       riskmodel.Label
	visit       uint64
	suggestions *suggest.Result
}

var _ screen.Screen = (*ResultsScreen)(nil)

// New classifies the session's answers with model. Suggestions come from
// suggester when it has a language model, asynchronously; otherwise the
// static list is shown straight away.
func New(catalog *questionnaire.Catalog, model *riskmodel.Model, suggester *suggest.Service, sess *wizard.Session) *ResultsScreen {
	answers := sess.Answers()
	features := answers.Encode()

	// Encode always yields NumKeys features, the arity the model is trained on.
	label, _ := model.Predict(features.Slice())
	metrics.PredictionsTotal.WithLabelValues(label.String()).Inc()

	r := &ResultsScreen{
		catalog:   catalog,
		suggester: suggester,
		answers:   answers,
		features:  features,
		label:     label,
		visit:     visits.Add(1),
	}
	if suggester == nil {
		static := suggest.Result{Items: catalog.Suggestions, Source: suggest.SourceStatic}
		r.suggestions = &static
	} else if !suggester.Personalized() {
		static := suggester.Suggest(context.Background(), answers)
		r.suggestions = &static
	}
	return r
}

func (r *ResultsScreen) Init() tea.Cmd {
	if r.suggestions != nil {
		return nil
	}
	suggester, answers, visit := r.suggester, r.answers, r.visit
	return func() tea.Msg {
		return suggestionsMsg{visit: visit, result: suggester.Suggest(context.Background(), answers)}
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionsMsg:
		if msg.visit != r.visit {
			return r, nil
		}
		r.suggestions = &msg.result
	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return r, func() tea.Msg {
				return router.ActionMsg{Action: wizard.GoHome}
			}
		}
	}
	return r, nil
}

// Label returns the classifier output shown on the screen.
func (r *ResultsScreen) Label() riskmodel.Label {
	return r.label
}

func (r *ResultsScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	wrap := lipgloss.NewStyle().Width(cw)

	var sections []string

	if r.label == riskmodel.HigherRisk {
		sections = append(sections, theme.HigherRisk.Render(wrap.Render(r.catalog.Results.Higher)))
	} else {
		sections = append(sections, theme.LowerRisk.Render(wrap.Render(r.catalog.Results.Lower)))
	}
	sections = append(sections, theme.Hint.Render(wrap.Render(r.catalog.Results.Caveat)))

	heading := r.catalog.Results.SuggestionsHeading
	var list []string
	if r.suggestions == nil {
		list = append(list, theme.Hint.Render("  preparing suggestions..."))
	} else {
		if r.suggestions.Source == suggest.SourceLLM {
			heading += theme.Hint.Render("  (generated)")
		}
		for _, item := range r.suggestions.Items {
			list = append(list, "  • "+theme.Body.Render(item))
		}
	}
	sections = append(sections, theme.Heading.Render(heading)+"\n"+strings.Join(list, "\n"))

	keys := questionnaire.KeyNames()
	bars := make([]components.Bar, len(keys))
	for i, k := range keys {
		bars[i] = components.Bar{Label: k, Value: r.features[i]}
	}
	sections = append(sections, components.NewBarChart(r.catalog.Results.ChartTitle, bars, 1, cw).View())

	for _, a := range wizard.Actions(wizard.Results) {
		sections = append(sections, components.NewButton(a.Label(), true).View())
	}

	content := strings.Join(sections, "\n\n")
	content = layout.Window(content, height, lipgloss.Height(content)-1)
	return lipgloss.NewStyle().Padding(0, 2).Render(content)
}

func (r *ResultsScreen) Title() string {
	return "Results"
}

func (r *ResultsScreen) Page() wizard.Page {
	return wizard.Results
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Go Home"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
