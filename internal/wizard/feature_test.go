package wizard

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/abhisek/carescreen/internal/questionnaire"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "wizard",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type scenarioState struct {
	session *Session
}

func initializeScenario(sc *godog.ScenarioContext) {
	st := &scenarioState{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		st.session = nil
		return ctx, nil
	})

	sc.Step(`^a new session$`, st.aNewSession)
	sc.Step(`^every question is answered "([^"]*)"$`, st.everyQuestionIsAnswered)
	sc.Step(`^I activate "([^"]*)"$`, st.iActivate)
	sc.Step(`^I go to "([^"]*)"$`, st.iGoTo)
	sc.Step(`^I answer "([^"]*)" with "([^"]*)"$`, st.iAnswer)
	sc.Step(`^the current page is "([^"]*)"$`, st.theCurrentPageIs)
	sc.Step(`^the encoded features are "([^"]*)"$`, st.theEncodedFeaturesAre)
	sc.Step(`^the answer for "([^"]*)" is "([^"]*)"$`, st.theAnswerIs)
}

func (st *scenarioState) aNewSession() error {
	st.session = New()
	return nil
}

func (st *scenarioState) everyQuestionIsAnswered(value string) error {
	for _, k := range questionnaire.Keys() {
		if err := st.session.RecordAnswer(k, questionnaire.Answer(value)); err != nil {
			return err
		}
	}
	return nil
}

func (st *scenarioState) iActivate(label string) error {
	for _, a := range []Action{StartAssessment, Submit, GoHome, SubmitFeedback} {
		if a.Label() == label {
			st.session.Activate(a)
			return nil
		}
	}
	return fmt.Errorf("no button labelled %q", label)
}

func (st *scenarioState) iGoTo(name string) error {
	p, err := ParsePage(name)
	if err != nil {
		return err
	}
	st.session.Goto(p)
	return nil
}

func (st *scenarioState) iAnswer(key, value string) error {
	return st.session.RecordAnswer(questionnaire.Key(key), questionnaire.Answer(value))
}

func (st *scenarioState) theCurrentPageIs(name string) error {
	if got := st.session.Page().String(); got != name {
		return fmt.Errorf("current page is %q, want %q", got, name)
	}
	return nil
}

func (st *scenarioState) theEncodedFeaturesAre(want string) error {
	f := st.session.Encode()
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = fmt.Sprintf("%g", v)
	}
	if got := strings.Join(parts, ","); got != want {
		return fmt.Errorf("features = %s, want %s", got, want)
	}
	return nil
}

func (st *scenarioState) theAnswerIs(key, want string) error {
	got := st.session.Answers().Get(questionnaire.Key(key))
	if string(got) != want {
		return fmt.Errorf("answer for %s = %q, want %q", key, got, want)
	}
	return nil
}
