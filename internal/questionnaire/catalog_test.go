package questionnaire

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Title == "" {
		t.Error("expected a title")
	}
	if len(c.Sections) != 3 {
		t.Errorf("sections = %d, want 3", len(c.Sections))
	}
	qs := c.Questions()
	if len(qs) != NumKeys {
		t.Fatalf("questions = %d, want %d", len(qs), NumKeys)
	}
	for i, q := range qs {
		if q.Key != Keys()[i] {
			t.Errorf("question %d = %q, want %q", i, q.Key, Keys()[i])
		}
	}
	want := []string{"Maintain a healthy diet", "Exercise regularly", "Avoid smoking", "Limit alcohol intake"}
	if strings.Join(c.Suggestions, "|") != strings.Join(want, "|") {
		t.Errorf("suggestions = %v", c.Suggestions)
	}
	if len(c.Resources) != 3 {
		t.Errorf("resources = %d, want 3", len(c.Resources))
	}
}

func TestCatalog_Question(t *testing.T) {
	q, ok := Default().Question(SymptomsLumps)
	if !ok {
		t.Fatal("expected symptoms_lumps in catalog")
	}
	if !strings.Contains(q.Prompt, "lumps") {
		t.Errorf("unexpected prompt %q", q.Prompt)
	}
	if _, ok := Default().Question("nope"); ok {
		t.Error("expected unknown key to be absent")
	}
}

func TestLoad_RejectsUnknownKey(t *testing.T) {
	doc := strings.Replace(string(catalogYAML), "key: symptoms_pain", "key: symptoms_fever", 1)
	_, err := Load([]byte(doc))
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestLoad_RejectsReorderedKeys(t *testing.T) {
	doc := strings.Replace(string(catalogYAML), "key: history_diagnosed", "key: history_biopsies", 1)
	if _, err := Load([]byte(doc)); err == nil {
		t.Fatal("expected error for duplicated/reordered key")
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	doc := string(catalogYAML) + "\nextra_field: true\n"
	if _, err := Load([]byte(doc)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoad_RejectsMissingQuestion(t *testing.T) {
	doc := `title: t
sections:
  - title: only
    questions:
      - key: history_diagnosed
        prompt: p
suggestions: ["x"]
`
	if _, err := Load([]byte(doc)); err == nil {
		t.Fatal("expected error for incomplete catalog")
	}
}
