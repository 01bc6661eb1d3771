package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Env             string
	Port            string
	CORSAllowOrigin []string

	// LLM defaults. Session settings override these; keys live in
	// process memory only and are never written back to disk.
	LLMProvider string
	OpenAIModel string
	GeminiModel string
	OpenAIKey   string
	GeminiKey   string
	LLMTimeout  time.Duration

	MaxUploadBytes int64
	SessionTTL     time.Duration

	// Token bucket for the generate endpoint, per session.
	GenerateRatePerMin float64
	GenerateBurst      int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	return Config{
		Env:                normalizeEnv(getEnv("ENV", "dev")),
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LLMProvider:        normalizeProvider(getEnv("LLM_PROVIDER", "openai")),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		GeminiKey:          os.Getenv("GEMINI_API_KEY"),
		LLMTimeout:         time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 90)) * time.Second,
		MaxUploadBytes:     getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		GenerateRatePerMin: float64(getEnvInt("GENERATE_RATE_PER_MIN", 6)),
		GenerateBurst:      getEnvInt("GENERATE_BURST", 2),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini":
		return "gemini"
	default:
		return "openai"
	}
}
