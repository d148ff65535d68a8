package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string
	WebDir   string

	// snapshot storage
	StoreBackend  string
	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotSlot  string

	// UI preferences handed to the browser
	DefaultTheme string
	UIAnimations bool

	// AI provider
	AIProvider        string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	OllamaBaseURL     string
	OllamaModel       string
	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterSiteURL string
	OpenRouterAppName string

	// rabbitMQ, empty URL disables turn events
	RabbitURL         string
	RabbitQueue       string
	WorkerConcurrency int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func Load() Config {
	backend := strings.ToLower(getEnv("STORE_BACKEND", "sqlite"))

	// DSN demo (mysql):
	// app:apppass@tcp(127.0.0.1:3306)/taim_chat?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" && backend == "sqlite" {
		dsn = "taim.db"
	}

	// API_KEY wins, GEMINI_API_KEY is accepted as an alias
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	concurrency := getEnvInt("WORKER_CONCURRENCY", 2)
	if concurrency <= 0 {
		concurrency = 2
	}
	if concurrency > 50 {
		concurrency = 50
	}

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		WebDir:   os.Getenv("WEB_DIR"),

		StoreBackend:  backend,
		DBDSN:         dsn,
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SnapshotSlot:  getEnv("SNAPSHOT_SLOT", "taim-ai-app-data"),

		DefaultTheme: strings.ToLower(getEnv("DEFAULT_THEME", "dark")),
		UIAnimations: getEnvBool("UI_ANIMATIONS", true),

		AIProvider:        strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		GeminiAPIKey:      apiKey,
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llava:latest"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openrouter/auto"),
		OpenRouterSiteURL: os.Getenv("OPENROUTER_SITE_URL"),
		OpenRouterAppName: getEnv("OPENROUTER_APP_NAME", "Taim Ai"),

		RabbitURL:         os.Getenv("RABBIT_URL"),
		RabbitQueue:       getEnv("RABBIT_QUEUE", "chat_turns"),
		WorkerConcurrency: concurrency,
	}
}

// ModelFor returns the configured model for a provider name.
func (c Config) ModelFor(provider string) string {
	switch strings.ToLower(provider) {
	case "ollama":
		return c.OllamaModel
	case "openrouter":
		return c.OpenRouterModel
	default:
		return c.GeminiModel
	}
}
