package nats

import (
	"testing"
	"time"

	"ai-deckbot-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.deck.generated", Subject(events.TypeDeckGenerated))
}

func TestDecodeEvent(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	e, err := DecodeEvent("events.deck.failed", []byte(`{"topic":"x","occurred_at":"`+at.Format(time.RFC3339Nano)+`"}`))
	require.NoError(t, err)

	assert.Equal(t, events.TypeDeckFailed, e.EventType())
	assert.Equal(t, "x", e.Payload()["topic"])
	assert.True(t, at.Equal(e.Timestamp()))

	_, err = DecodeEvent("events.deck.failed", []byte("{"))
	assert.Error(t, err)
}
