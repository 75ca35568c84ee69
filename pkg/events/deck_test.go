package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeckEventPayload(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := DeckEvent{
		Type:       TypeDeckGenerated,
		Channel:    "telegram",
		Topic:      "Solar",
		Language:   "en",
		Mode:       "scratch",
		SlideCount: 5,
		Source:     "model",
		SizeBytes:  1024,
		OccurredAt: at,
	}

	p := e.Payload()
	assert.Equal(t, TypeDeckGenerated, e.EventType())
	assert.Equal(t, at, e.Timestamp())
	assert.Equal(t, "model", p["source"])
	assert.Equal(t, 1024, p["size_bytes"])
	assert.NotContains(t, p, "template")
	assert.NotContains(t, p, "error")
}
