package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	ShutdownTimeout time.Duration

	// Conversational model settings. An empty APIKey disables the model and
	// the chat layer runs on deterministic rules only.
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITimeout     time.Duration
	OpenAIMaxTokens   int
	OpenAITemperature float64
	OpenAIRatePerSec  float64
}

// FromEnv builds Config with defaults, overridden by environment variables.
// A local .env file is honored when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    envOrDefault("DB_DSN", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),

		OpenAIAPIKey:      envOrDefault("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     envOrDefault("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAITimeout:     envDuration("OPENAI_TIMEOUT_SECONDS", 15*time.Second),
		OpenAIMaxTokens:   envInt("OPENAI_MAX_TOKENS", 300),
		OpenAITemperature: envFloat("OPENAI_TEMPERATURE", 0.7),
		OpenAIRatePerSec:  envFloat("OPENAI_RATE_PER_SEC", 2),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
