package events

import "time"

const (
	TypeDeckGenerated = "deck.generated"
	TypeDeckFailed    = "deck.failed"
)

// DeckEvent describes one pipeline run. It travels as JSON on the in-process
// bus and on NATS.
type DeckEvent struct {
	Type           string    `json:"type"`
	PresentationID string    `json:"presentation_id,omitempty"`
	Channel        string    `json:"channel"` // telegram, websocket, http, cli
	Topic          string    `json:"topic"`
	Language       string    `json:"language"`
	Template       string    `json:"template,omitempty"`
	Mode           string    `json:"mode"` // templated or scratch
	SlideCount     int       `json:"slide_count"`
	Source         string    `json:"source,omitempty"` // model or fallback
	FallbackReason string    `json:"fallback_reason,omitempty"`
	Error          string    `json:"error,omitempty"`
	SizeBytes      int       `json:"size_bytes,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	OccurredAt     time.Time `json:"occurred_at"`
}

var _ Event = DeckEvent{}

func (e DeckEvent) EventType() string {
	return e.Type
}

func (e DeckEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func (e DeckEvent) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"type":        e.Type,
		"channel":     e.Channel,
		"topic":       e.Topic,
		"language":    e.Language,
		"mode":        e.Mode,
		"slide_count": e.SlideCount,
		"duration_ms": e.DurationMs,
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
	optional := map[string]string{
		"presentation_id": e.PresentationID,
		"template":        e.Template,
		"source":          e.Source,
		"fallback_reason": e.FallbackReason,
		"error":           e.Error,
	}
	for k, v := range optional {
		if v != "" {
			p[k] = v
		}
	}
	if e.SizeBytes > 0 {
		p["size_bytes"] = e.SizeBytes
	}
	return p
}
