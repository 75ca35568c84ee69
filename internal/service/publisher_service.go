// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"

	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventSink forwards events outside the process (NATS).
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

type IPublisherService interface {
	// Publish is best effort: failures are logged, never returned to the pipeline.
	Publish(ctx context.Context, event events.DeckEvent)
}

type publisherService struct {
	topicName string
	pubSub    message.Publisher
	sink      EventSink
	logger    logger.ILogger
}

// NewPublisherService publishes on the in-process bus and, when sink is
// non-nil, to the external sink as well.
func NewPublisherService(topicName string, pubSub message.Publisher, sink EventSink, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		sink:      sink,
		logger:    log,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.DeckEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("EVENTS", "Failed to marshal deck event", map[string]interface{}{"type": event.Type, "error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", event.Type)
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		p.logger.Warn("EVENTS", "Failed to publish deck event", map[string]interface{}{"topic": p.topicName, "error": err.Error()})
	}

	if p.sink == nil {
		return
	}
	if err := p.sink.Publish(ctx, event); err != nil {
		p.logger.Warn("EVENTS", "Failed to forward deck event", map[string]interface{}{"type": event.Type, "error": err.Error()})
	}
}
