package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Backend is the connection settings of one provider.
type Backend struct {
	APIKey  string
	Model   string
	BaseURL string // optional; OpenAI-compatible backends only
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Config selects a provider and holds the settings of every backend.
type Config struct {
	Provider string

	Anthropic  Backend
	OpenAI     Backend
	Gemini     Backend
	OpenRouter Backend

	Retry RetryConfig
}

// DefaultConfig returns the defaults used when no variable overrides them.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  Backend{Model: "claude-haiku"},
		OpenAI:     Backend{Model: "gpt-4o-mini"},
		Gemini:     Backend{Model: "gemini-flash"},
		OpenRouter: Backend{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// backendEnv ties a provider to its variable prefix and to the standard key
// variable probed by DiscoverConfig. Discovery follows this order.
var backendEnv = []struct {
	provider    string
	discoverKey string
	backend     func(*Config) *Backend
}{
	{ProviderGemini, "GEMINI_API_KEY", func(c *Config) *Backend { return &c.Gemini }},
	{ProviderOpenAI, "OPENAI_API_KEY", func(c *Config) *Backend { return &c.OpenAI }},
	{ProviderAnthropic, "ANTHROPIC_API_KEY", func(c *Config) *Backend { return &c.Anthropic }},
	{ProviderOpenRouter, "OPENROUTER_API_KEY", func(c *Config) *Backend { return &c.OpenRouter }},
}

func envPrefix(provider string) string {
	return "CARESCREEN_" + strings.ToUpper(provider) + "_"
}

// ConfigFromEnv reads CARESCREEN_LLM_PROVIDER and the per-provider
// CARESCREEN_<PROVIDER>_API_KEY, _MODEL and _BASE_URL variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("CARESCREEN_LLM_PROVIDER"); p != "" {
		cfg.Provider = strings.ToLower(p)
	}

	for _, be := range backendEnv {
		b := be.backend(&cfg)
		prefix := envPrefix(be.provider)
		if v := os.Getenv(prefix + "API_KEY"); v != "" {
			b.APIKey = v
		}
		if v := os.Getenv(prefix + "MODEL"); v != "" {
			b.Model = v
		}
		if v := os.Getenv(prefix + "BASE_URL"); v != "" {
			b.BaseURL = v
		}
	}
	return cfg
}

// DiscoverConfig picks the first provider whose standard API key variable
// is set (Gemini, OpenAI, Anthropic, OpenRouter). It reports false when
// none is.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, be := range backendEnv {
		if k := os.Getenv(be.discoverKey); k != "" {
			cfg.Provider = be.provider
			be.backend(&cfg).APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// LoadConfig returns the explicit configuration when CARESCREEN_LLM_PROVIDER
// is set and discovery otherwise. It reports false when no provider is
// configured; "none" disables the LLM explicitly.
func LoadConfig() (Config, bool) {
	if os.Getenv("CARESCREEN_LLM_PROVIDER") != "" {
		cfg := ConfigFromEnv()
		if cfg.Provider == "none" {
			return Config{}, false
		}
		return cfg, true
	}
	return DiscoverConfig()
}

// Validate checks that the selected provider is known and has an API key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	for _, be := range backendEnv {
		if be.provider != c.Provider {
			continue
		}
		if be.backend(&c).APIKey == "" {
			return fmt.Errorf("%sAPI_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
