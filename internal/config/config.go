package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Sessions
	SessionSecret     string
	SessionTTLMinutes int

	// Gemini AI
	GeminiAPIKey         string
	GeminiConcurrentReqs int
	LLMTimeoutSeconds    int

	// Uploads
	MaxUploadBytes int64

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		SessionSecret:        mustGetEnv("SESSION_SECRET"),
		SessionTTLMinutes:    getEnvAsIntOrDefault("SESSION_TTL_MINUTES", 720),
		GeminiAPIKey:         mustGetEnv("GEMINI_API_KEY"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		LLMTimeoutSeconds:    getEnvAsIntOrDefault("LLM_TIMEOUT_SECONDS", 60),
		MaxUploadBytes:       int64(getEnvAsIntOrDefault("MAX_UPLOAD_BYTES", 10<<20)),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	if cfg.SessionTTLMinutes <= 0 {
		panic(fmt.Sprintf("SESSION_TTL_MINUTES must be positive, got %d", cfg.SessionTTLMinutes))
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
