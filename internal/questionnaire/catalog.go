package questionnaire

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Question is one prompt of the assessment page.
type Question struct {
	Key    Key    `yaml:"key" json:"key"`
	Prompt string `yaml:"prompt" json:"prompt"`
}

// Section groups questions under a heading.
type Section struct {
	Title     string     `yaml:"title" json:"title"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// Resource is an external educational link shown on the home page.
type Resource struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// ResultCopy holds the text shown on the results page.
type ResultCopy struct {
	Higher             string `yaml:"higher" json:"higher"`
	Lower              string `yaml:"lower" json:"lower"`
	Caveat             string `yaml:"caveat" json:"caveat"`
	SuggestionsHeading string `yaml:"suggestions_heading" json:"suggestions_heading"`
	ChartTitle         string `yaml:"chart_title" json:"chart_title"`
}

// FeedbackCopy holds the text shown on the feedback page.
type FeedbackCopy struct {
	Heading string `yaml:"heading" json:"heading"`
	Prompt  string `yaml:"prompt" json:"prompt"`
	Thanks  string `yaml:"thanks" json:"thanks"`
}

// Catalog is the full content of the questionnaire: every piece of text a
// surface needs to render the four pages.
type Catalog struct {
	Title            string       `yaml:"title" json:"title"`
	HeroImage        string       `yaml:"hero_image" json:"hero_image"`
	Welcome          []string     `yaml:"welcome" json:"welcome"`
	ResourcesHeading string       `yaml:"resources_heading" json:"resources_heading"`
	Resources        []Resource   `yaml:"resources" json:"resources"`
	Sections         []Section    `yaml:"sections" json:"sections"`
	Results          ResultCopy   `yaml:"results" json:"results"`
	Suggestions      []string     `yaml:"suggestions" json:"suggestions"`
	Feedback         FeedbackCopy `yaml:"feedback" json:"feedback"`
}

var defaultCatalog = mustLoad(catalogYAML)

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustLoad(data []byte) *Catalog {
	c, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("questionnaire: embedded catalog: %v", err))
	}
	return c
}

// Load parses a YAML catalog and checks that its questions cover the fixed
// key set exactly once, in feature order.
func Load(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	qs := c.Questions()
	if len(qs) != NumKeys {
		return fmt.Errorf("catalog has %d questions, want %d", len(qs), NumKeys)
	}
	for i, q := range qs {
		if !q.Key.Valid() {
			return fmt.Errorf("catalog question %d: %w: %q", i, ErrInvalidKey, q.Key)
		}
		if q.Key != keyOrder[i] {
			return fmt.Errorf("catalog question %d is %q, want %q", i, q.Key, keyOrder[i])
		}
		if q.Prompt == "" {
			return fmt.Errorf("catalog question %q has no prompt", q.Key)
		}
	}
	if len(c.Suggestions) == 0 {
		return fmt.Errorf("catalog has no suggestions")
	}
	return nil
}

// Questions returns every question across sections, in feature order.
func (c *Catalog) Questions() []Question {
	var out []Question
	for _, s := range c.Sections {
		out = append(out, s.Questions...)
	}
	return out
}

// Question returns the question for k.
func (c *Catalog) Question(k Key) (Question, bool) {
	for _, s := range c.Sections {
		for _, q := range s.Questions {
			if q.Key == k {
				return q, true
			}
		}
	}
	return Question{}, false
}
