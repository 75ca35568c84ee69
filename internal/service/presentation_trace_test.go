package service

import (
	"context"
	"testing"

	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/pkg/outline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// spanCapturingStructure records the span active when the outline is requested.
type spanCapturingStructure struct {
	span trace.SpanContext
}

func (s *spanCapturingStructure) GenerateStructure(ctx context.Context, topic string, lang entity.Language, slideCount int, _ *entity.TemplateStructure) entity.StructureResult {
	s.span = trace.SpanFromContext(ctx).SpanContext()
	return entity.StructureResult{Structure: outline.BuildFallback(topic, slideCount, lang), Source: entity.SourceModel}
}

func (s *spanCapturingStructure) BuildFallbackStructure(topic string, slideCount int, lang entity.Language) entity.DeckStructure {
	return outline.BuildFallback(topic, slideCount, lang)
}

func TestExecuteNestsStructureCallUnderItsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	templates, err := NewTemplateService(t.TempDir(), nopLogger)
	require.NoError(t, err)
	structure := &spanCapturingStructure{}
	svc := NewPresentationService(templates, structure, NewDeckService(nopLogger), &recordingPublisher{}, 20, nopLogger)

	_, err = svc.Generate(context.Background(), entity.PresentationRequest{Topic: "Topic", Language: entity.LanguageEN, SlideCount: 2})
	require.NoError(t, err)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		spans[s.Name()] = s
	}
	gen, ok := spans["presentation.structure"]
	require.True(t, ok)
	exec, ok := spans["presentation.execute"]
	require.True(t, ok)
	asm, ok := spans["presentation.assemble"]
	require.True(t, ok)

	require.True(t, structure.span.IsValid())
	assert.Equal(t, gen.SpanContext().SpanID(), structure.span.SpanID())
	assert.Equal(t, exec.SpanContext().SpanID(), gen.Parent().SpanID())
	assert.Equal(t, exec.SpanContext().SpanID(), asm.Parent().SpanID())
}
