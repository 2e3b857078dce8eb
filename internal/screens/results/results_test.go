package results

import (
	"encoding/json"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/carescreen/internal/llm"
	"github.com/abhisek/carescreen/internal/logging"
	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/riskmodel"
	"github.com/abhisek/carescreen/internal/router"
	"github.com/abhisek/carescreen/internal/suggest"
	"github.com/abhisek/carescreen/internal/wizard"
)

func resultsSession(t *testing.T, yes ...questionnaire.Key) *wizard.Session {
	t.Helper()
	sess := wizard.New()
	for _, k := range yes {
		if err := sess.RecordAnswer(k, questionnaire.Yes); err != nil {
			t.Fatal(err)
		}
	}
	sess.Goto(wizard.Results)
	return sess
}

func TestLabelMatchesModel(t *testing.T) {
	model := riskmodel.Default()
	for _, yes := range [][]questionnaire.Key{
		nil,
		{questionnaire.HistoryFamily, questionnaire.SymptomsLumps},
		questionnaire.Keys(),
	} {
		sess := resultsSession(t, yes...)
		want, err := model.Predict(sess.Encode().Slice())
		if err != nil {
			t.Fatal(err)
		}
		r := New(questionnaire.Default(), model, nil, sess)
		if r.Label() != want {
			t.Errorf("yes=%v: label %v, want %v", yes, r.Label(), want)
		}
	}
}

func TestStaticSuggestionsWithoutProvider(t *testing.T) {
	cat := questionnaire.Default()
	svc := suggest.NewService(nil, cat, suggest.DefaultConfig(), logging.Discard())
	r := New(cat, riskmodel.Default(), svc, resultsSession(t))

	if cmd := r.Init(); cmd != nil {
		t.Error("static suggestions should not need a command")
	}
	view := ansi.Strip(r.View(120, 200))
	for _, want := range []string{cat.Suggestions[0], cat.Results.SuggestionsHeading, cat.Results.ChartTitle, "Go Home"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSuggestionsArriveAsync(t *testing.T) {
	cat := questionnaire.Default()
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"suggestions":["Walk daily","Sleep well","Drink water"]}`),
	})
	svc := suggest.NewService(mock, cat, suggest.DefaultConfig(), logging.Discard())
	r := New(cat, riskmodel.Default(), svc, resultsSession(t, questionnaire.HistoryFamily))

	if view := ansi.Strip(r.View(120, 200)); !strings.Contains(view, "preparing suggestions") {
		t.Error("expected a loading line before suggestions arrive")
	}

	cmd := r.Init()
	if cmd == nil {
		t.Fatal("expected a command to fetch suggestions")
	}
	r.Update(cmd())

	view := ansi.Strip(r.View(120, 200))
	if !strings.Contains(view, "Walk daily") {
		t.Error("generated suggestions not shown")
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", mock.CallCount())
	}
}

func TestSuggestionsFromEarlierVisitIgnored(t *testing.T) {
	cat := questionnaire.Default()
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"suggestions":["Old advice one","Old advice two","Old advice three"]}`)},
		llm.MockResponse{Content: json.RawMessage(`{"suggestions":["New advice one","New advice two","New advice three"]}`)},
	)
	svc := suggest.NewService(mock, cat, suggest.DefaultConfig(), logging.Discard())

	first := New(cat, riskmodel.Default(), svc, resultsSession(t, questionnaire.HistoryFamily))
	late := first.Init()()

	second := New(cat, riskmodel.Default(), svc, resultsSession(t, questionnaire.SymptomsPain))
	second.Update(late)

	view := ansi.Strip(second.View(120, 200))
	if strings.Contains(view, "Old advice one") {
		t.Error("suggestions from an earlier visit were shown")
	}
	if !strings.Contains(view, "preparing suggestions") {
		t.Error("screen should still be waiting for its own suggestions")
	}

	second.Update(second.Init()())
	view = ansi.Strip(second.View(120, 200))
	if !strings.Contains(view, "New advice one") {
		t.Error("suggestions for this visit not shown")
	}
}

func TestChartShowsEveryKey(t *testing.T) {
	r := New(questionnaire.Default(), riskmodel.Default(), nil, resultsSession(t, questionnaire.SymptomsPain))
	view := ansi.Strip(r.View(120, 200))

	for _, k := range questionnaire.KeyNames() {
		if !strings.Contains(view, k) {
			t.Errorf("chart missing %s", k)
		}
	}
	if !strings.Contains(view, "1.0") {
		t.Error("chart should show the Yes answer as 1.0")
	}
}

func TestEnterGoesHome(t *testing.T) {
	r := New(questionnaire.Default(), riskmodel.Default(), nil, resultsSession(t))

	_, cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from enter")
	}
	msg, ok := cmd().(router.ActionMsg)
	if !ok || msg.Action != wizard.GoHome {
		t.Errorf("expected GoHome action, got %#v", cmd())
	}
}
