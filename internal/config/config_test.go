package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LDA_CONFIG_FILE", "")
	t.Setenv("API_PORT", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port 8080, got %q", cfg.APIPort)
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Fatalf("expected default model gpt-4o, got %q", cfg.OpenAIModel)
	}
	if cfg.OpenAITimeoutSeconds != 120 {
		t.Fatalf("expected default engine timeout 120, got %d", cfg.OpenAITimeoutSeconds)
	}
	if cfg.SessionTTLMinutes != 60 || cfg.SessionSweepMinutes != 10 {
		t.Fatalf("unexpected session expiry defaults: %d/%d", cfg.SessionTTLMinutes, cfg.SessionSweepMinutes)
	}
	if cfg.APIRateLimitRPS != 0 {
		t.Fatalf("rate limiting should default off, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.EventsEnabled {
		t.Fatalf("events should default off")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("LDA_CONFIG_FILE", "")
	t.Setenv("API_PORT", "9191")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_BURST", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "9191" {
		t.Fatalf("expected api port override, got %q", cfg.APIPort)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected model override, got %q", cfg.OpenAIModel)
	}
	if cfg.SessionTTLMinutes != 5 {
		t.Fatalf("expected ttl override 5, got %d", cfg.SessionTTLMinutes)
	}
	if !cfg.EventsEnabled {
		t.Fatalf("expected events enabled")
	}
	if cfg.APIRateLimitRPS != 2.5 || cfg.APIRateLimitBurst != 7 {
		t.Fatalf("unexpected rate limit overrides: %v/%d", cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
}

func TestLoadYAMLFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lda.yaml")
	body := "api_port: \"7000\"\nopenai_model: gpt-4.1\nsession_ttl_minutes: 15\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("LDA_CONFIG_FILE", path)
	t.Setenv("API_PORT", "7001")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("SESSION_TTL_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OpenAIModel != "gpt-4.1" {
		t.Fatalf("yaml model not applied, got %q", cfg.OpenAIModel)
	}
	if cfg.SessionTTLMinutes != 15 {
		t.Fatalf("yaml ttl not applied, got %d", cfg.SessionTTLMinutes)
	}
	if cfg.APIPort != "7001" {
		t.Fatalf("env must win over yaml, got %q", cfg.APIPort)
	}
}

func TestLoadBadYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lda.yaml")
	if err := os.WriteFile(path, []byte("api_port: [broken"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("LDA_CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
}
