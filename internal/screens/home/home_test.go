package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/router"
	"github.com/abhisek/carescreen/internal/wizard"
)

func TestEnterStartsAssessment(t *testing.T) {
	h := New(questionnaire.Default(), "")

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from enter")
	}
	msg, ok := cmd().(router.ActionMsg)
	if !ok {
		t.Fatalf("expected ActionMsg, got %T", cmd())
	}
	if msg.Action != wizard.StartAssessment {
		t.Errorf("expected StartAssessment, got %v", msg.Action)
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	h := New(questionnaire.Default(), "")

	if _, cmd := h.Update(tea.KeyPressMsg{Code: 'x', Text: "x"}); cmd != nil {
		t.Error("expected no command for an unbound key")
	}
}

func TestView(t *testing.T) {
	cat := questionnaire.Default()
	view := ansi.Strip(New(cat, "").View(100, 200))

	for _, want := range []string{cat.ResourcesHeading, cat.Resources[0].Label, "Start Assessment"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewShowsNotice(t *testing.T) {
	view := ansi.Strip(New(questionnaire.Default(), "Thanks!").View(100, 200))
	if !strings.Contains(view, "Thanks!") {
		t.Error("notice not rendered")
	}
}

func TestPage(t *testing.T) {
	h := New(questionnaire.Default(), "")
	if h.Page() != wizard.Home || h.Title() != "Home" {
		t.Errorf("got page %v title %q", h.Page(), h.Title())
	}
}
