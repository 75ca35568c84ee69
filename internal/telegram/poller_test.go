package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/internal/repository/memory"
	"ai-deckbot-be/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	stopped  bool
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeBot) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeBot) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type noTemplates struct{}

func (noTemplates) ListTemplates() []entity.TemplateDescriptor { return nil }

type nopGenerator struct{}

func (nopGenerator) MaxSlides() int { return 20 }
func (nopGenerator) Plan(context.Context, entity.PresentationRequest) (*entity.PresentationPlan, error) {
	return &entity.PresentationPlan{}, nil
}
func (nopGenerator) Execute(context.Context, *entity.PresentationPlan) (*entity.Presentation, error) {
	return &entity.Presentation{FileName: "x.pptx"}, nil
}

func commandUpdate(id int, cmd string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: 5},
			Chat:      &tgbotapi.Chat{ID: 6},
			Text:      "/" + cmd,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}},
		},
	}
}

func newTestPoller(t *testing.T, bot *fakeBot) *Poller {
	t.Helper()
	w := wizard.New(memory.NewWizardSessionRepository(time.Hour, time.Hour), nopGenerator{}, noTemplates{}, entity.LanguageEN, nil, logger.NewNopLogger())
	p, err := NewPoller(bot, w, 1, logger.NewNopLogger())
	require.NoError(t, err)
	return p
}

func TestToEvent(t *testing.T) {
	ev, ok := ToEvent(commandUpdate(1, "create"))
	require.True(t, ok)
	assert.Equal(t, wizard.EventCommand, ev.Kind)
	assert.Equal(t, "create", ev.Command)
	assert.Equal(t, int64(5), ev.UserID)
	assert.Equal(t, int64(6), ev.ChatID)

	ev, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 2}, Text: "Topic"}})
	require.True(t, ok)
	assert.Equal(t, wizard.EventText, ev.Kind)
	assert.Equal(t, "Topic", ev.Text)

	ev, ok = ToEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{MessageID: 44, Chat: &tgbotapi.Chat{ID: 2}},
		Data:    "count:3",
	}})
	require.True(t, ok)
	assert.Equal(t, wizard.EventCallback, ev.Kind)
	assert.Equal(t, 44, ev.MessageID)
	assert.Equal(t, "count:3", ev.Data)

	_, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 2}, Text: "no sender"}})
	assert.False(t, ok)
	_, ok = ToEvent(tgbotapi.Update{})
	assert.False(t, ok)
}

func TestHandleUpdateSkipsDuplicates(t *testing.T) {
	bot := &fakeBot{}
	p := newTestPoller(t, bot)

	p.HandleUpdate(context.Background(), commandUpdate(10, "start"))
	p.HandleUpdate(context.Background(), commandUpdate(10, "start"))
	p.HandleUpdate(context.Background(), commandUpdate(11, "help"))

	assert.Equal(t, 2, bot.sentCount())
}

func TestCreateSendsInlineKeyboard(t *testing.T) {
	bot := &fakeBot{}
	p := newTestPoller(t, bot)

	p.HandleUpdate(context.Background(), commandUpdate(1, "create"))

	require.Equal(t, 1, bot.sentCount())
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	mk, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, mk.InlineKeyboard, 1)
	require.NotNil(t, mk.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "tpl_none", *mk.InlineKeyboard[0][0].CallbackData)
}

func TestRunStopsOnCancel(t *testing.T) {
	bot := &fakeBot{updates: make(chan tgbotapi.Update, 1)}
	p := newTestPoller(t, bot)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	bot.updates <- commandUpdate(1, "start")
	assert.Eventually(t, func() bool { return bot.sentCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
	assert.True(t, bot.stopped)
}
