// Package config centralises all environment / flag configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business-logic
// layers receive an already-built Config instance via dependency-injection.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple, preferring primitive types over embedded structs.
type Config struct {
	// Network
	Port string

	// Data stores
	MongoURI string
	DBName   string

	// Commerce platform
	ShopifyStore string
	ShopifyToken string

	// LLM providers
	OpenAIKey   string
	OpenAIModel string
	ProjectID   string
	Location    string
	GeminiModel string

	// Credential gate
	WidgetAPIKey    string
	WidgetRateLimit int

	// Generation retry policy (fallback providers only)
	GenMaxAttempts    int
	GenInitialBackoff time.Duration

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load parses the environment (and an optional .env file) into Config.
// It panics on missing critical variables so mis-configurations fail fast.
func Load() Config {
	// godotenv.Load() is a no-op if .env doesn't exist.
	_ = godotenv.Load()

	return Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          must("MONGODB_URI"),
		DBName:            getEnv("MONGODB_DB", "support_widget"),
		ShopifyStore:      must("SHOPIFY_STORE"),
		ShopifyToken:      must("SHOPIFY_TOKEN"),
		OpenAIKey:         must("OPEN_AI_KEY"),
		OpenAIModel:       getEnv("OPEN_AI_MODEL", "gpt-3.5-turbo"),
		ProjectID:         must("GCP_PROJECT_ID"),
		Location:          getEnv("GCP_LOCATION", "us-central1"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash-lite-001"),
		WidgetAPIKey:      getEnv("WIDGET_API_KEY", "demo_key_12345"),
		WidgetRateLimit:   getInt("WIDGET_RATE_LIMIT", 100),
		GenMaxAttempts:    getInt("GEN_MAX_ATTEMPTS", 3),
		GenInitialBackoff: getDuration("GEN_INITIAL_BACKOFF_SEC", 1),
		ReadTimeout:       getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout:      getDuration("WRITE_TIMEOUT_SEC", 30),
	}
}

// must fetches a required env var or terminates the program.
func must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("env var %s is required", key)
	}
	return val
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt reads an integer from env, falling back to defaultVal.
func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid %s=%q; using default %d", key, v, defaultVal)
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}
