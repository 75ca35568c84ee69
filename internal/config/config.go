package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const HostedOllamaURL = "https://ollama.com"

type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Ai       AIConfig
	Deck     DeckConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string // empty disables the NATS event sink
	OtelEnabled        bool
}

type TelegramConfig struct {
	Enabled     bool
	Token       string
	PollTimeout int // seconds
}

type AIConfig struct {
	LLMProvider    string // "ollama", "openai" or "mock"
	LLMModel       string
	OllamaBaseURL  string
	OllamaAPIKey   string
	RequestTimeout time.Duration
	RepairJSON     bool
	MaxTokens      int
}

type DeckConfig struct {
	Language     string // "ru" or "en"
	TemplatesDir string
	MaxSlides    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Telegram: TelegramConfig{
			Enabled:     getEnvAsBool("TELEGRAM_ENABLED", true),
			Token:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			PollTimeout: getEnvAsInt("TELEGRAM_POLL_TIMEOUT", 60),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:       getEnv("LLM_MODEL", "kimi-k2:1t-cloud"),
			OllamaBaseURL:  strings.TrimRight(getEnv("OLLAMA_BASE_URL", HostedOllamaURL), "/"),
			OllamaAPIKey:   getEnv("OLLAMA_API_KEY", ""),
			RequestTimeout: getEnvAsDuration("AI_REQUEST_TIMEOUT", 120*time.Second),
			RepairJSON:     getEnvAsBool("AI_REPAIR_JSON", false),
			MaxTokens:      getEnvAsInt("AI_MAX_TOKENS", 0),
		},
		Deck: DeckConfig{
			Language:     getEnv("DECK_LANGUAGE", "ru"),
			TemplatesDir: getEnv("TEMPLATES_DIR", "./presentations"),
			MaxSlides:    getEnvAsInt("MAX_SLIDES", 20),
		},
	}
}

// Validate reports configuration that must stop the process before it serves.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required when TELEGRAM_ENABLED is true"))
	}
	if c.Ai.LLMProvider != "mock" && c.Ai.OllamaBaseURL == HostedOllamaURL && c.Ai.OllamaAPIKey == "" {
		errs = append(errs, errors.New("OLLAMA_API_KEY is required for the hosted Ollama endpoint"))
	}
	if c.Deck.MaxSlides < 1 {
		errs = append(errs, errors.New("MAX_SLIDES must be at least 1"))
	}
	if c.Ai.RequestTimeout <= 0 {
		errs = append(errs, errors.New("AI_REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
