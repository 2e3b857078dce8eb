package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func listSchema() *Schema {
	return &Schema{
		Name: "test-list",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"items": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string", "minLength": 1},
					"minItems": 1,
					"maxItems": 3,
				},
			},
			"required":             []string{"items"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"items":["a","b"]}`, true},
		{"missing required", `{}`, false},
		{"too many items", `{"items":["a","b","c","d"]}`, false},
		{"empty string item", `{"items":[""]}`, false},
		{"extra property", `{"items":["a"],"x":1}`, false},
		{"not json", `items: a`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(listSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("content = %s", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("nil schema should accept anything: %v", err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	a, err := compileSchema(listSchema())
	if err != nil {
		t.Fatal(err)
	}
	b, err := compileSchema(listSchema())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected cached schema to be reused")
	}
}
