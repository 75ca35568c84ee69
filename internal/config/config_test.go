package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"LLM_MODEL", "OLLAMA_BASE_URL", "DECK_LANGUAGE", "MAX_SLIDES", "AI_REQUEST_TIMEOUT", "TELEGRAM_ENABLED"} {
		t.Setenv(k, "")
	}
	t.Setenv("LLM_MODEL", "kimi-k2:1t-cloud")

	cfg := Load()
	assert.Equal(t, "kimi-k2:1t-cloud", cfg.Ai.LLMModel)
	assert.Equal(t, 20, cfg.Deck.MaxSlides)
	assert.Equal(t, 120*time.Second, cfg.Ai.RequestTimeout)
	assert.True(t, cfg.Telegram.Enabled)
}

func TestDurationParsing(t *testing.T) {
	t.Setenv("AI_REQUEST_TIMEOUT", "45")
	assert.Equal(t, 45*time.Second, getEnvAsDuration("AI_REQUEST_TIMEOUT", time.Second))

	t.Setenv("AI_REQUEST_TIMEOUT", "2m")
	assert.Equal(t, 2*time.Minute, getEnvAsDuration("AI_REQUEST_TIMEOUT", time.Second))

	t.Setenv("AI_REQUEST_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getEnvAsDuration("AI_REQUEST_TIMEOUT", time.Second))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Telegram: TelegramConfig{Enabled: true, Token: "123:abc"},
			Ai:       AIConfig{LLMProvider: "ollama", OllamaBaseURL: HostedOllamaURL, OllamaAPIKey: "key", RequestTimeout: time.Minute},
			Deck:     DeckConfig{MaxSlides: 20},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing telegram token", func(c *Config) { c.Telegram.Token = "" }},
		{"missing hosted api key", func(c *Config) { c.Ai.OllamaAPIKey = "" }},
		{"zero max slides", func(c *Config) { c.Deck.MaxSlides = 0 }},
		{"zero timeout", func(c *Config) { c.Ai.RequestTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	local := valid()
	local.Telegram.Enabled = false
	local.Telegram.Token = ""
	local.Ai.OllamaBaseURL = "http://localhost:11434"
	local.Ai.OllamaAPIKey = ""
	assert.NoError(t, local.Validate())
}
