// FILE: internal/service/audit_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/pkg/events"
	"ai-deckbot-be/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IAuditService consumes deck events from the in-process bus, records them in
// the log and updates the Prometheus counters.
type IAuditService interface {
	Consume(ctx context.Context) error
	Handle(event events.DeckEvent)
}

type auditService struct {
	subscriber message.Subscriber
	topicName  string
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewAuditService(subscriber message.Subscriber, topicName string, m *metrics.Metrics, log logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		topicName:  topicName,
		metrics:    m,
		logger:     log,
	}
}

func (a *auditService) Consume(ctx context.Context) error {
	messages, err := a.subscriber.Subscribe(ctx, a.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			a.processMessage(msg)
		}
	}()
	return nil
}

func (a *auditService) processMessage(msg *message.Message) {
	var event events.DeckEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		a.logger.Error("AUDIT", "Failed to unmarshal deck event", map[string]interface{}{"uuid": msg.UUID, "error": err.Error()})
		// Ack invalid messages to prevent infinite redelivery.
		msg.Ack()
		return
	}
	a.Handle(event)
	msg.Ack()
}

func (a *auditService) Handle(event events.DeckEvent) {
	duration := time.Duration(event.DurationMs) * time.Millisecond
	details := map[string]interface{}{
		"presentation_id": event.PresentationID,
		"channel":         event.Channel,
		"mode":            event.Mode,
		"slides":          event.SlideCount,
		"template":        event.Template,
		"duration_ms":     event.DurationMs,
	}

	switch event.Type {
	case events.TypeDeckGenerated:
		a.metrics.IncGenerated(event.Source, event.Mode, event.Channel)
		a.metrics.ObservePipeline("ok", duration)
		if event.Source == "fallback" {
			a.metrics.IncFallback(event.FallbackReason)
			details["fallback_reason"] = event.FallbackReason
		}
		a.logger.Info("AUDIT", "Deck generated", details)
	case events.TypeDeckFailed:
		a.metrics.IncFailure(event.Mode, event.Channel)
		a.metrics.ObservePipeline("error", duration)
		if event.FallbackReason != "" {
			a.metrics.IncFallback(event.FallbackReason)
		}
		details["error"] = event.Error
		a.logger.Warn("AUDIT", "Deck generation failed", details)
	default:
		a.logger.Debug("AUDIT", "Ignoring event", map[string]interface{}{"type": event.Type})
	}
}
