// Package suggest produces the "Personalized Suggestions" list of the
// results page. Without a language model it serves the static catalog
// list; with one it asks for a short list of general wellness tips and
// falls back to the static list on any failure.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/carescreen/internal/llm"
	"github.com/abhisek/carescreen/internal/metrics"
	"github.com/abhisek/carescreen/internal/questionnaire"
)

// Purpose labels suggestion requests in the LLM event log.
const Purpose = "wellness-suggestions"

// Source says where a suggestion list came from.
type Source string

const (
	SourceStatic Source = "static"
	SourceLLM    Source = "llm"
)

// Result is a suggestion list and its origin.
type Result struct {
	Items  []string `json:"items"`
	Source Source   `json:"source"`
}

// Config holds suggestion generation settings.
type Config struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxTokens:   400,
		Temperature: 0.4,
	}
}

// Service builds suggestion lists. It is safe for concurrent use.
type Service struct {
	provider llm.Provider
	catalog  *questionnaire.Catalog
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a suggestion service. provider may be nil, in which
// case every result is the static list.
func NewService(provider llm.Provider, catalog *questionnaire.Catalog, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	return &Service{provider: provider, catalog: catalog, cfg: cfg, logger: logger}
}

// Personalized reports whether a language model is configured.
func (s *Service) Personalized() bool {
	return s.provider != nil
}

// Static returns the catalog list.
func (s *Service) Static() Result {
	items := make([]string, len(s.catalog.Suggestions))
	copy(items, s.catalog.Suggestions)
	return Result{Items: items, Source: SourceStatic}
}

// Suggest returns suggestions for answers. It never fails: any provider
// error, timeout or malformed response yields the static list.
func (s *Service) Suggest(ctx context.Context, answers questionnaire.AnswerSet) Result {
	res := s.suggest(ctx, answers)
	metrics.SuggestionsTotal.WithLabelValues(string(res.Source)).Inc()
	return res
}

func (s *Service) suggest(ctx context.Context, answers questionnaire.AnswerSet) Result {
	if s.provider == nil {
		return s.Static()
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, Purpose), s.cfg.Timeout)
	defer cancel()

	items, err := s.generate(ctx, answers)
	if err != nil {
		s.logger.WarnContext(ctx, "falling back to static suggestions", "kind", llm.Kind(err), "error", err)
		return s.Static()
	}
	return Result{Items: items, Source: SourceLLM}
}

type output struct {
	Suggestions []string `json:"suggestions"`
}

func (s *Service) generate(ctx context.Context, answers questionnaire.AnswerSet) ([]string, error) {
	req := llm.UserPrompt(systemPrompt, buildUserMessage(s.catalog, answers))
	req.Schema = Schema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseItems(resp.Content)
}

// ParseItems extracts the non-blank suggestions from a model response.
// Fewer than three usable items is an error.
func ParseItems(content []byte) ([]string, error) {
	var out output
	if err := json.Unmarshal(content, &out); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	items := make([]string, 0, len(out.Suggestions))
	for _, item := range out.Suggestions {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) < minItems {
		return nil, fmt.Errorf("parse suggestions: got %d usable items, want at least %d", len(items), minItems)
	}
	return items, nil
}
