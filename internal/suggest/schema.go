package suggest

import "github.com/abhisek/carescreen/internal/llm"

const (
	minItems = 3
	maxItems = 5
)

// Schema is the structured output requested from the model.
var Schema = &llm.Schema{
	Name:        "wellness-suggestions",
	Description: "A short list of general wellness suggestions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type":        "array",
				"description": "3-5 short, general wellness suggestions (at most 12 words each)",
				"items": map[string]any{
					"type":      "string",
					"minLength": 1,
					"maxLength": 120,
				},
				"minItems": minItems,
				"maxItems": maxItems,
			},
		},
		"required":             []any{"suggestions"},
		"additionalProperties": false,
	},
}
