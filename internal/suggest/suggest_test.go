package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/carescreen/internal/llm"
	"github.com/abhisek/carescreen/internal/logging"
	"github.com/abhisek/carescreen/internal/questionnaire"
)

func newService(p llm.Provider) *Service {
	cfg := DefaultConfig()
	cfg.Timeout = time.Second
	return NewService(p, questionnaire.Default(), cfg, logging.Discard())
}

func answers(t *testing.T, yes ...questionnaire.Key) questionnaire.AnswerSet {
	t.Helper()
	s := questionnaire.NewAnswerSet()
	for _, k := range yes {
		if err := s.Set(k, questionnaire.Yes); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestSuggest_StaticWithoutProvider(t *testing.T) {
	svc := newService(nil)
	if svc.Personalized() {
		t.Error("no provider should not be personalized")
	}

	res := svc.Suggest(context.Background(), answers(t, questionnaire.SymptomsLumps))
	if res.Source != SourceStatic {
		t.Errorf("source = %q", res.Source)
	}
	want := []string{"Maintain a healthy diet", "Exercise regularly", "Avoid smoking", "Limit alcohol intake"}
	if strings.Join(res.Items, "|") != strings.Join(want, "|") {
		t.Errorf("items = %v", res.Items)
	}
}

func TestSuggest_StaticIsACopy(t *testing.T) {
	svc := newService(nil)
	res := svc.Static()
	res.Items[0] = "changed"
	if svc.Static().Items[0] == "changed" {
		t.Error("Static exposed the catalog slice")
	}
}

func TestSuggest_FromLLM(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"suggestions":["Walk 30 minutes a day"," Eat more vegetables ","Book a routine check-up"]}`),
	})
	svc := newService(mock)

	res := svc.Suggest(context.Background(), answers(t, questionnaire.HistoryFamily, questionnaire.SymptomsPain))
	if res.Source != SourceLLM {
		t.Fatalf("source = %q", res.Source)
	}
	if len(res.Items) != 3 || res.Items[1] != "Eat more vegetables" {
		t.Errorf("items = %q", res.Items)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d", len(calls))
	}
	req := calls[0]
	if req.Schema != Schema {
		t.Error("request did not carry the suggestions schema")
	}
	user := req.Messages[0].Content
	family, _ := questionnaire.Default().Question(questionnaire.HistoryFamily)
	if !strings.Contains(user, family.Prompt) {
		t.Errorf("prompt missing yes answer:\n%s", user)
	}
	lumps, _ := questionnaire.Default().Question(questionnaire.SymptomsLumps)
	if strings.Contains(user, lumps.Prompt) {
		t.Errorf("prompt includes an unanswered question:\n%s", user)
	}
	if !strings.Contains(req.System, "Never diagnose") {
		t.Error("system prompt lost the no-diagnosis rule")
	}
}

func TestSuggest_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
		{"schema violation", llm.MockResponse{Content: json.RawMessage(`{"suggestions":["only one"]}`)}},
		{"not json", llm.MockResponse{Content: json.RawMessage(`sure! here you go`)}},
		{"blank items", llm.MockResponse{Content: json.RawMessage(`{"suggestions":["a"," ","  "]}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(llm.NewMockProvider(tt.resp))
			res := svc.Suggest(context.Background(), answers(t))
			if res.Source != SourceStatic || len(res.Items) != 4 {
				t.Errorf("got %+v, want static fallback", res)
			}
		})
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestSuggest_TimeoutFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	svc := NewService(slowProvider{}, questionnaire.Default(), cfg, logging.Discard())

	start := time.Now()
	res := svc.Suggest(context.Background(), answers(t))
	if res.Source != SourceStatic {
		t.Errorf("source = %q", res.Source)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout not applied")
	}
}

func TestBuildUserMessage_NoYesAnswers(t *testing.T) {
	msg := buildUserMessage(questionnaire.Default(), questionnaire.NewAnswerSet())
	if !strings.Contains(msg, "- nothing") || !strings.Contains(msg, "unanswered: 10 of 10") {
		t.Errorf("unexpected message:\n%s", msg)
	}
}
