// FILE: internal/service/structure_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/pkg/llm"
	"ai-deckbot-be/pkg/outline"
)

type IStructureService interface {
	// GenerateStructure never fails: every problem degrades to the fallback
	// outline and is reported through the result.
	GenerateStructure(ctx context.Context, topic string, lang entity.Language, slideCount int, tmpl *entity.TemplateStructure) entity.StructureResult
	BuildFallbackStructure(topic string, slideCount int, lang entity.Language) entity.DeckStructure
}

type StructureOptions struct {
	Timeout    time.Duration
	RepairJSON bool
	MaxTokens  int // 0 leaves the provider default
}

type structureService struct {
	provider  llm.LLMProvider
	parser    outline.Parser
	timeout   time.Duration
	callOpts  []llm.Option
	logger    logger.ILogger
	llmLogger logger.ILogger
}

func NewStructureService(provider llm.LLMProvider, opts StructureOptions, log, llmLog logger.ILogger) IStructureService {
	if llmLog == nil {
		llmLog = log
	}
	var callOpts []llm.Option
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llm.WithMaxTokens(opts.MaxTokens))
	}
	return &structureService{
		provider:  provider,
		callOpts:  callOpts,
		parser:    outline.Parser{Repair: opts.RepairJSON},
		timeout:   opts.Timeout,
		logger:    log,
		llmLogger: llmLog,
	}
}

func (s *structureService) BuildFallbackStructure(topic string, slideCount int, lang entity.Language) entity.DeckStructure {
	return outline.BuildFallback(topic, slideCount, lang)
}

func (s *structureService) GenerateStructure(ctx context.Context, topic string, lang entity.Language, slideCount int, tmpl *entity.TemplateStructure) entity.StructureResult {
	deck, err := s.generate(ctx, topic, lang, slideCount, tmpl)
	if err == nil {
		return entity.StructureResult{Structure: deck, Source: entity.SourceModel}
	}

	s.logger.Warn("STRUCTURE", "Falling back to default outline", map[string]interface{}{
		"topic":       topic,
		"slide_count": slideCount,
		"reason":      FallbackReason(err),
		"error":       err.Error(),
	})
	return entity.StructureResult{
		Structure: outline.BuildFallback(topic, slideCount, lang),
		Source:    entity.SourceFallback,
		Err:       err,
	}
}

func (s *structureService) generate(ctx context.Context, topic string, lang entity.Language, slideCount int, tmpl *entity.TemplateStructure) (entity.DeckStructure, error) {
	prompt, err := outline.BuildPrompt(topic, lang, slideCount, tmpl)
	if err != nil {
		return entity.DeckStructure{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := s.provider.Generate(ctx, prompt, s.callOpts...)
	if err != nil {
		return entity.DeckStructure{}, fmt.Errorf("model call: %w", err)
	}

	s.llmLogger.Info("LLM", "Outline response", map[string]interface{}{
		"topic":       topic,
		"slide_count": slideCount,
		"prompt":      prompt,
		"response":    content,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return s.parser.Parse(content, slideCount)
}

// FallbackReason maps a generation error to a short metric label.
func FallbackReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, outline.ErrMalformedModelOutput):
		return "malformed_output"
	case errors.Is(err, outline.ErrMissingSlides):
		return "missing_slides"
	case errors.Is(err, outline.ErrSlideCountMismatch):
		return "slide_count_mismatch"
	case errors.Is(err, outline.ErrMissingTitle):
		return "missing_title"
	case errors.Is(err, outline.ErrInvalidPoints):
		return "invalid_points"
	default:
		return "model_unavailable"
	}
}
