package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CARESCREEN_ADDR", "CARESCREEN_ENV", "LOG_LEVEL", "LOG_FORMAT",
		"SESSION_TTL", "SUGGEST_TIMEOUT", "MODEL_SEED", "MODEL_ROWS",
	} {
		t.Setenv(k, "")
	}
	// Keep a stray .env in the package directory from leaking in.
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != DefaultAddr || cfg.Env != DefaultEnv || cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.SuggestTimeout != 10*time.Second {
		t.Errorf("durations = %s / %s", cfg.SessionTTL, cfg.SuggestTimeout)
	}
	if cfg.ModelSeed != 42 || cfg.ModelRows != 100 {
		t.Errorf("model = seed %d rows %d", cfg.ModelSeed, cfg.ModelRows)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("expected development mode")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CARESCREEN_ADDR", "127.0.0.1:9000")
	t.Setenv("CARESCREEN_ENV", "production")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("SUGGEST_TIMEOUT", "3")
	t.Setenv("MODEL_SEED", "7")
	t.Setenv("MODEL_ROWS", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || !cfg.IsProduction() || cfg.LogFormat != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SessionTTL != 5*time.Minute || cfg.SuggestTimeout != 3*time.Second {
		t.Errorf("durations = %s / %s", cfg.SessionTTL, cfg.SuggestTimeout)
	}
	if cfg.ModelSeed != 7 || cfg.ModelRows != 250 {
		t.Errorf("model = seed %d rows %d", cfg.ModelSeed, cfg.ModelRows)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CARESCREEN_ADDR=:7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	// godotenv skips variables that exist, even when empty. The t.Setenv
	// in clearEnv restores the original value afterwards.
	os.Unsetenv("CARESCREEN_ADDR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Addr)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Addr:           ":8080",
			LogFormat:      "text",
			SessionTTL:     time.Minute,
			SuggestTimeout: time.Second,
			ModelRows:      100,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"negative timeout", func(c *Config) { c.SuggestTimeout = -time.Second }, "SUGGEST_TIMEOUT"},
		{"zero rows", func(c *Config) { c.ModelRows = 0 }, "MODEL_ROWS"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"empty addr", func(c *Config) { c.Addr = "" }, "CARESCREEN_ADDR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "garbage")
	if got := getEnvDuration("TEST_DURATION", time.Second); got != time.Second {
		t.Errorf("garbage should fall back to default, got %s", got)
	}
	t.Setenv("TEST_DURATION", "1h")
	if got := getEnvDuration("TEST_DURATION", time.Second); got != time.Hour {
		t.Errorf("got %s, want 1h", got)
	}
}
