// Package mock provides a scripted LLMProvider for offline runs and tests.
package mock

import (
	"ai-deckbot-be/pkg/llm"
	"context"
	"sync"
)

// Provider replays Responses in order, repeating the last one. Err, when set,
// is returned instead. Prompts records every prompt received.
type Provider struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Prompts   []string
	// Options holds the resolved options of every call.
	Options   []llm.Options
	// Block makes calls wait for ctx cancellation.
	Block     bool
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(responses ...string) *Provider {
	return &Provider{Responses: responses}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.mu.Lock()
	p.Options = append(p.Options, llm.ApplyOptions(llm.Options{}, options...))
	var prompt string
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	p.Prompts = append(p.Prompts, prompt)
	call := len(p.Prompts) - 1
	block, err := p.Block, p.Err
	p.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	if len(p.Responses) == 0 {
		return "", nil
	}
	if call >= len(p.Responses) {
		call = len(p.Responses) - 1
	}
	return p.Responses[call], nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

// Calls returns the number of requests served.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Prompts)
}
