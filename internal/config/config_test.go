package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.HTTPAddr)
	}
	if cfg.SuggestEngine != EngineDirect {
		t.Fatalf("default engine should be direct, got %q", cfg.SuggestEngine)
	}
	if cfg.DebounceDelay != 500*time.Millisecond {
		t.Fatalf("default debounce should be 500ms, got %v", cfg.DebounceDelay)
	}
	if cfg.MinSuggestions != 3 || cfg.MaxSuggestions != 7 {
		t.Fatalf("default batch bounds should be 3..7, got %d..%d", cfg.MinSuggestions, cfg.MaxSuggestions)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing GEMINI_API_KEY")
	}
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SUGGEST_ENGINE", "chat")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestLoadNormalizesEngineCase(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SUGGEST_ENGINE", "AGENT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SuggestEngine != EngineAgent {
		t.Fatalf("engine case should be normalized, got %q", cfg.SuggestEngine)
	}
}

func TestLoadEnforcesBatchCeiling(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SUGGEST_MAX_ITEMS", "9")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for batch ceiling above 7")
	}
}

func TestLoadRejectsBadDebounce(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SUGGEST_DEBOUNCE", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable debounce duration")
	}
}

func TestLoadWildcardOriginEnablesAllowAll(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CORS_ORIGINS", "*")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.CORSAllowAll {
		t.Fatal("wildcard origin should enable allow-all")
	}
}
