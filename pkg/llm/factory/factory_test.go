package factory

import (
	"testing"

	"ai-deckbot-be/pkg/llm/mock"
	"ai-deckbot-be/pkg/llm/ollama"
	"ai-deckbot-be/pkg/llm/openaicompat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(ProviderConfig{Provider: "ollama", Model: "m"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, defaultOllamaURL, o.BaseURL)

	p, err = NewLLMProvider(ProviderConfig{Provider: "openai", BaseURL: "https://ollama.com"})
	require.NoError(t, err)
	assert.IsType(t, &openaicompat.Provider{}, p)

	p, err = NewLLMProvider(ProviderConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &mock.Provider{}, p)

	_, err = NewLLMProvider(ProviderConfig{Provider: "gemini"})
	assert.Error(t, err)
}
