package factory

import (
	"ai-deckbot-be/pkg/llm"
	"ai-deckbot-be/pkg/llm/mock"
	"ai-deckbot-be/pkg/llm/ollama"
	"ai-deckbot-be/pkg/llm/openaicompat"
	"fmt"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

type ProviderConfig struct {
	Provider string // "ollama", "openai" or "mock"
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.APIKey, cfg.Timeout), nil
	case "openai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		return openaicompat.NewProvider(cfg.APIKey, baseURL+"/v1", cfg.Model, cfg.Timeout), nil
	case "mock":
		// No scripted replies: every call yields an empty answer and the outline falls back.
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
