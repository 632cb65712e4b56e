package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	RedisAddr     string
	RedisPassword string

	// AdminSecret gates the key-management routes. Empty means key
	// management is effectively disabled (requests get a descriptive 500).
	AdminSecret string

	// GeminiAPIKey authenticates against the text-generation provider.
	GeminiAPIKey string
	GeminiModel  string

	// GitHubToken is the fallback token used when a request does not
	// carry its own githubToken.
	GitHubToken string

	GenerateTimeout time.Duration
	LogLevel        string
}

func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		AdminSecret:     getEnv("ADMIN_SECRET_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		GitHubToken:     getEnv("GITHUB_TOKEN", ""),
		GenerateTimeout: getDuration("GENERATE_TIMEOUT", 90*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
