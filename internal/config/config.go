package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Engine selects how suggestion requests reach the generative backend.
const (
	// EngineDirect calls the Gemini API with a response schema directly.
	EngineDirect = "direct"
	// EngineAgent routes the request through an ADK agent that reports
	// results via a function tool.
	EngineAgent = "agent"
)

type Config struct {
	Env            string
	HTTPAddr       string
	GeminiAPIKey   string
	GeminiModel    string
	SuggestEngine  string
	DebounceDelay  time.Duration
	MinSuggestions int
	MaxSuggestions int
	CORSAllowAll   bool
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SuggestEngine:  strings.ToLower(getEnv("SUGGEST_ENGINE", EngineDirect)),
		DebounceDelay:  mustDuration(getEnv("SUGGEST_DEBOUNCE", "500ms")),
		MinSuggestions: mustInt(getEnv("SUGGEST_MIN_ITEMS", "3")),
		MaxSuggestions: mustInt(getEnv("SUGGEST_MAX_ITEMS", "7")),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		RateLimitRPS:   mustFloat(getEnv("RATE_LIMIT_RPS", "5")),
		RateLimitBurst: mustInt(getEnv("RATE_LIMIT_BURST", "10")),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.SuggestEngine != EngineDirect && cfg.SuggestEngine != EngineAgent {
		return nil, fmt.Errorf("SUGGEST_ENGINE must be %q or %q", EngineDirect, EngineAgent)
	}
	if cfg.DebounceDelay <= 0 {
		return nil, fmt.Errorf("SUGGEST_DEBOUNCE must be a positive duration")
	}
	if cfg.MinSuggestions < 1 || cfg.MaxSuggestions < cfg.MinSuggestions {
		return nil, fmt.Errorf("SUGGEST_MIN_ITEMS/SUGGEST_MAX_ITEMS must satisfy 1 <= min <= max")
	}
	if cfg.MaxSuggestions > 7 {
		return nil, fmt.Errorf("SUGGEST_MAX_ITEMS must not exceed 7")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("rate limit settings must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
