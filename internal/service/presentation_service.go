// FILE: internal/service/presentation_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-deckbot-be/internal/constant"
	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/pkg/events"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrEmptyTopic         = errors.New("topic must not be empty")
	ErrSlideCountOutRange = errors.New("slide count out of range")
)

// IPresentationService runs inspector, generator and assembler in sequence.
type IPresentationService interface {
	Plan(ctx context.Context, req entity.PresentationRequest) (*entity.PresentationPlan, error)
	Execute(ctx context.Context, plan *entity.PresentationPlan) (*entity.Presentation, error)
	Generate(ctx context.Context, req entity.PresentationRequest) (*entity.Presentation, error)
	MaxSlides() int
}

type presentationService struct {
	templates ITemplateService
	structure IStructureService
	decks     IDeckService
	publisher IPublisherService
	maxSlides int
	logger    logger.ILogger
}

func NewPresentationService(
	templates ITemplateService,
	structure IStructureService,
	decks IDeckService,
	publisher IPublisherService,
	maxSlides int,
	log logger.ILogger,
) IPresentationService {
	return &presentationService{
		templates: templates,
		structure: structure,
		decks:     decks,
		publisher: publisher,
		maxSlides: maxSlides,
		logger:    log,
	}
}

func (s *presentationService) MaxSlides() int {
	return s.maxSlides
}

func (s *presentationService) Plan(ctx context.Context, req entity.PresentationRequest) (*entity.PresentationPlan, error) {
	_, span := otel.Tracer("presentation").Start(ctx, "presentation.plan")
	defer span.End()

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if req.SlideCount < 1 || req.SlideCount > s.maxSlides {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrSlideCountOutRange, req.SlideCount, s.maxSlides)
	}

	plan := &entity.PresentationPlan{
		Topic:      topic,
		Language:   req.Language,
		SlideCount: req.SlideCount,
		Channel:    req.Channel,
		Inspection: entity.TemplateInspection{Style: entity.StyleBusiness},
	}

	if req.TemplateName == "" {
		return plan, nil
	}

	tmpl, ok := s.templates.Resolve(req.TemplateName)
	if !ok {
		s.logger.Warn("PRESENTATION", "Template not found, building from scratch", map[string]interface{}{"template": req.TemplateName})
		return plan, nil
	}
	plan.Template = &tmpl
	plan.Inspection = s.templates.ExtractStructure(tmpl.Path)

	// A readable template dictates the slide count, still capped by maxSlides.
	if n := plan.Inspection.SlideCount(); n > 0 {
		if n > s.maxSlides {
			s.logger.Warn("PRESENTATION", "Template exceeds slide limit, clamping", map[string]interface{}{
				"template": tmpl.Name, "template_slides": n, "max_slides": s.maxSlides,
			})
			n = s.maxSlides
		}
		plan.SlideCount = n
	}
	span.SetAttributes(
		attribute.String("template", tmpl.Name),
		attribute.Int("slide_count", plan.SlideCount),
	)
	return plan, nil
}

func (s *presentationService) Execute(ctx context.Context, plan *entity.PresentationPlan) (*entity.Presentation, error) {
	ctx, span := otel.Tracer("presentation").Start(ctx, "presentation.execute")
	defer span.End()

	start := time.Now()
	templatePath := ""
	if plan.Template != nil {
		templatePath = plan.Template.Path
	}
	mode := AssemblyMode(templatePath)

	event := events.DeckEvent{
		Channel:    plan.Channel,
		Topic:      plan.Topic,
		Language:   string(plan.Language),
		Template:   plan.TemplateName(),
		Mode:       mode,
		SlideCount: plan.SlideCount,
	}

	genCtx, genSpan := otel.Tracer("presentation").Start(ctx, "presentation.structure")
	result := s.structure.GenerateStructure(genCtx, plan.Topic, plan.Language, plan.SlideCount, plan.Inspection.Structure)
	genSpan.SetAttributes(attribute.String("source", string(result.Source)))
	genSpan.End()

	event.Source = string(result.Source)
	event.FallbackReason = FallbackReason(result.Err)

	style := plan.Inspection.Style
	if style == "" {
		style = entity.StyleBusiness
	}

	_, asmSpan := otel.Tracer("presentation").Start(ctx, "presentation.assemble")
	data, err := s.decks.Assemble(result.Structure, style, templatePath, plan.Language)
	if err != nil {
		asmSpan.RecordError(err)
		asmSpan.SetStatus(codes.Error, err.Error())
	}
	asmSpan.SetAttributes(attribute.Int("size_bytes", len(data)))
	asmSpan.End()

	event.DurationMs = time.Since(start).Milliseconds()
	event.OccurredAt = time.Now()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		event.Type = events.TypeDeckFailed
		event.Error = err.Error()
		s.publisher.Publish(ctx, event)
		s.logger.Error("PRESENTATION", "Deck assembly failed", map[string]interface{}{"topic": plan.Topic, "mode": mode, "error": err.Error()})
		return nil, err
	}

	p := &entity.Presentation{
		Id:          uuid.New(),
		FileName:    FileName(plan.Topic, plan.TemplateName()),
		Data:        data,
		SlideCount:  len(result.Structure.Slides),
		Source:      result.Source,
		Template:    plan.TemplateName(),
		FallbackErr: result.Err,
	}

	event.Type = events.TypeDeckGenerated
	event.PresentationID = p.Id.String()
	event.SizeBytes = len(data)
	s.publisher.Publish(ctx, event)

	s.logger.Info("PRESENTATION", "Deck generated", map[string]interface{}{
		"id":     p.Id.String(),
		"topic":  plan.Topic,
		"slides": p.SlideCount,
		"source": string(p.Source),
		"mode":   mode,
		"bytes":  len(data),
	})
	return p, nil
}

func (s *presentationService) Generate(ctx context.Context, req entity.PresentationRequest) (*entity.Presentation, error) {
	plan, err := s.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, plan)
}

// FileName is the first 30 runes of the topic, then the template name or
// "new". Path separators are replaced so the name is always a base name.
func FileName(topic, template string) string {
	runes := []rune(topic)
	if len(runes) > constant.FileNameTopicRunes {
		runes = runes[:constant.FileNameTopicRunes]
	}
	if template == "" {
		template = constant.NewDeckFileNameLabel
	}
	name := string(runes) + "_" + template + ".pptx"
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name)
}
