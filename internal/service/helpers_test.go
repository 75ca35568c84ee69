package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/pkg/events"
	"ai-deckbot-be/pkg/pptx"

	"github.com/stretchr/testify/require"
)

var nopLogger = logger.NewNopLogger()

// writeTemplate saves a deck whose slides carry the given titles and body paragraphs.
func writeTemplate(t *testing.T, dir, name string, slides []entity.TemplateSlide) string {
	t.Helper()
	deck, err := pptx.New()
	require.NoError(t, err)

	for _, s := range slides {
		slide, err := deck.AddSlide(1)
		require.NoError(t, err)
		title, ok := slide.Title()
		require.True(t, ok)
		title.SetText(s.Title)

		body, ok := slide.Placeholder(1)
		require.True(t, ok)
		for i, p := range s.Points {
			if i == 0 {
				body.SetText(p)
				continue
			}
			body.AddParagraph(p, 0)
		}
	}

	path := filepath.Join(dir, name+".pptx")
	require.NoError(t, deck.Save(path))
	return path
}

func readDeck(t *testing.T, data []byte) *pptx.Deck {
	t.Helper()
	deck, err := pptx.Read(data)
	require.NoError(t, err)
	return deck
}

func slideTitle(t *testing.T, s pptx.Slide) string {
	t.Helper()
	title, ok := s.Title()
	require.True(t, ok)
	return title.Text()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DeckEvent
}

func (r *recordingPublisher) Publish(_ context.Context, e events.DeckEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) Events() []events.DeckEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.DeckEvent(nil), r.events...)
}
