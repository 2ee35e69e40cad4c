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

	// Groq AI
	GroqAPIKey         string
	GroqModel          string
	GroqTimeoutSeconds int

	// Frontend bundle
	StaticDir string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	// 0 disables the client timeout; upstream calls then block until the
	// transport gives up on its own. Negative values would fail every call
	// immediately, so they clamp to 0.
	timeout := getEnvAsIntOrDefault("GROQ_TIMEOUT_SECONDS", 0)
	if timeout < 0 {
		timeout = 0
	}

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		GroqAPIKey:         mustGetEnv("GROQ_API_KEY"),
		GroqModel:          getEnvOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqTimeoutSeconds: timeout,
		StaticDir:          getEnvOrDefault("STATIC_DIR", "./public"),
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
