package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/pkg/llm/mock"
	"ai-deckbot-be/pkg/outline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStructureService(p *mock.Provider, opts StructureOptions) IStructureService {
	return NewStructureService(p, opts, nopLogger, nil)
}

func TestGenerateStructureFromModel(t *testing.T) {
	p := mock.NewProvider("Here you go:\n```json\n" +
		`{"slides":[{"title":"Solar","points":["Cheap","Clean"]},{"title":"Risks","points":["Storage"]}]}` +
		"\n```")
	svc := newStructureService(p, StructureOptions{Timeout: time.Second})

	res := svc.GenerateStructure(context.Background(), "Solar", entity.LanguageEN, 2, nil)
	require.NoError(t, res.Err)
	assert.False(t, res.Degraded())
	assert.Equal(t, entity.SourceModel, res.Source)
	require.Len(t, res.Structure.Slides, 2)
	assert.Equal(t, []string{"Cheap", "Clean"}, res.Structure.Slides[0].Points)
	assert.Equal(t, 1, p.Calls())
}

func TestGenerateStructureAlwaysReturnsRequestedCount(t *testing.T) {
	replies := map[string]string{
		"no json":       "Sorry, I can't.",
		"wrong count":   `{"slides":[{"title":"Only one"}]}`,
		"missing title": `{"slides":[{"points":[]},{"points":[]},{"points":[]}]}`,
		"not an object": `["slides"]`,
		"empty":         "",
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			svc := newStructureService(mock.NewProvider(reply), StructureOptions{})
			res := svc.GenerateStructure(context.Background(), "Topic", entity.LanguageRU, 3, nil)

			assert.True(t, res.Degraded())
			assert.Error(t, res.Err)
			require.Len(t, res.Structure.Slides, 3)
			assert.Equal(t, "Topic", res.Structure.Slides[0].Title)
			assert.Equal(t, "AI Generated", res.Structure.Slides[0].Subtitle)
		})
	}
}

func TestGenerateStructureProviderError(t *testing.T) {
	p := mock.NewProvider()
	p.Err = errors.New("connection refused")
	svc := newStructureService(p, StructureOptions{})

	res := svc.GenerateStructure(context.Background(), "Topic", entity.LanguageEN, 4, nil)
	assert.True(t, res.Degraded())
	assert.Equal(t, "model_unavailable", FallbackReason(res.Err))
	assert.Equal(t, outline.BuildFallback("Topic", 4, entity.LanguageEN), res.Structure)
}

func TestGenerateStructureTimesOut(t *testing.T) {
	p := mock.NewProvider()
	p.Block = true
	svc := newStructureService(p, StructureOptions{Timeout: 20 * time.Millisecond})

	start := time.Now()
	res := svc.GenerateStructure(context.Background(), "Topic", entity.LanguageRU, 2, nil)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, res.Degraded())
	assert.Equal(t, "timeout", FallbackReason(res.Err))
	assert.Len(t, res.Structure.Slides, 2)
}

func TestGenerateStructureEmbedsTemplate(t *testing.T) {
	p := mock.NewProvider(`{"slides":[{"title":"A"}]}`)
	svc := newStructureService(p, StructureOptions{})

	tmpl := &entity.TemplateStructure{Slides: []entity.TemplateSlide{{Title: "Шаблонный заголовок", Points: []string{}}}}
	res := svc.GenerateStructure(context.Background(), "Тема", entity.LanguageRU, 1, tmpl)
	require.False(t, res.Degraded())

	require.Len(t, p.Prompts, 1)
	assert.Contains(t, p.Prompts[0], "Шаблонный заголовок")
	assert.Contains(t, p.Prompts[0], `"Тема"`)
}

func TestBuildFallbackStructure(t *testing.T) {
	svc := newStructureService(mock.NewProvider(), StructureOptions{})
	for n := 1; n <= 10; n++ {
		deck := svc.BuildFallbackStructure("T", n, entity.LanguageRU)
		assert.Len(t, deck.Slides, n, fmt.Sprint(n))
	}
}

func TestFallbackReason(t *testing.T) {
	assert.Equal(t, "", FallbackReason(nil))
	assert.Equal(t, "slide_count_mismatch", FallbackReason(fmt.Errorf("x: %w", outline.ErrSlideCountMismatch)))
	assert.Equal(t, "malformed_output", FallbackReason(outline.ErrMalformedModelOutput))
	assert.Equal(t, "canceled", FallbackReason(context.Canceled))
}

func TestGenerateStructurePassesTokenCap(t *testing.T) {
	p := mock.NewProvider()
	newStructureService(p, StructureOptions{Timeout: time.Second, MaxTokens: 2048}).
		GenerateStructure(context.Background(), "Topic", entity.LanguageEN, 2, nil)
	require.Len(t, p.Options, 1)
	assert.Equal(t, 2048, p.Options[0].MaxTokens)

	p = mock.NewProvider()
	newStructureService(p, StructureOptions{Timeout: time.Second}).
		GenerateStructure(context.Background(), "Topic", entity.LanguageEN, 2, nil)
	require.Len(t, p.Options, 1)
	assert.Zero(t, p.Options[0].MaxTokens)
}
