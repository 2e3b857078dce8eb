// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the web server and the terminal UI.
type Config struct {
	// Server
	Addr string
	Env  string // "development" or "production"

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Sessions and suggestions
	SessionTTL     time.Duration
	SuggestTimeout time.Duration

	// Placeholder model
	ModelSeed uint64
	ModelRows int
}

const (
	DefaultAddr           = ":8080"
	DefaultEnv            = "development"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultSessionTTL     = 30 * time.Minute
	DefaultSuggestTimeout = 10 * time.Second
	DefaultModelSeed      = 42
	DefaultModelRows      = 100
)

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; real variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("CARESCREEN_ADDR", DefaultAddr),
		Env:            getEnv("CARESCREEN_ENV", DefaultEnv),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:      getEnv("LOG_FORMAT", DefaultLogFormat),
		SessionTTL:     getEnvDuration("SESSION_TTL", DefaultSessionTTL),
		SuggestTimeout: getEnvDuration("SUGGEST_TIMEOUT", DefaultSuggestTimeout),
		ModelSeed:      uint64(getEnvInt64("MODEL_SEED", DefaultModelSeed)),
		ModelRows:      int(getEnvInt64("MODEL_ROWS", DefaultModelRows)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("CARESCREEN_ADDR must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.SuggestTimeout <= 0 {
		return fmt.Errorf("SUGGEST_TIMEOUT must be positive, got %s", c.SuggestTimeout)
	}
	if c.ModelRows <= 0 {
		return fmt.Errorf("MODEL_ROWS must be positive, got %d", c.ModelRows)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("90s", "30m") or a bare
// number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
