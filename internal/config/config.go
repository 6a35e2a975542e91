package config

import (
	"os"
	"strings"
)

type Config struct {
	Port           string
	DBPath         string
	RedisURI       string   // optional; chat context memory falls back to in-process storage when empty
	LLMBaseURL     string   // OpenAI-compatible endpoint for the tutor model
	LLMAPIKey      string
	LLMModel       string
	YouTubeAPIKey  string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	Environment    string   // ENV: production, development, etc.
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		if u := strings.TrimSpace(getEnv("FRONTEND_URL", "")); u != "" {
			allowedOrigins = append(allowedOrigins, u)
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		Port:           getEnv("PORT", "5001"),
		DBPath:         getEnv("DB_PATH", "scoratis.db"),
		RedisURI:       getEnv("REDIS_URI", ""),
		LLMBaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:      getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		YouTubeAPIKey:  getEnv("YOUTUBE_API_KEY", ""),
		AllowedOrigins: allowedOrigins,
		Environment:    env,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
