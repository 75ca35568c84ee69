// Package telegram connects the wizard to the Telegram Bot API using long
// polling. Updates are handled one at a time.
package telegram

import (
	"context"
	"fmt"

	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	lru "github.com/hashicorp/golang-lru/v2"
)

const updateDedupCacheSize = 1024

type Poller struct {
	bot         botAPI
	messenger   *Messenger
	wizard      *wizard.Wizard
	pollTimeout int
	seen        *lru.Cache[int, struct{}]
	logger      logger.ILogger
}

// NewBot authorizes token against the Bot API.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return bot, nil
}

func NewPoller(bot botAPI, w *wizard.Wizard, pollTimeout int, log logger.ILogger) (*Poller, error) {
	seen, err := lru.New[int, struct{}](updateDedupCacheSize)
	if err != nil {
		return nil, fmt.Errorf("telegram update deduper init: %w", err)
	}
	return &Poller{
		bot:         bot,
		messenger:   NewMessenger(bot),
		wizard:      w,
		pollTimeout: pollTimeout,
		seen:        seen,
		logger:      log,
	}, nil
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.pollTimeout
	updates := p.bot.GetUpdatesChan(cfg)

	p.logger.Info("TELEGRAM", "Polling started", map[string]interface{}{"timeout": p.pollTimeout})
	for {
		select {
		case <-ctx.Done():
			p.bot.StopReceivingUpdates()
			p.logger.Info("TELEGRAM", "Polling stopped", nil)
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			p.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update to the wizard, skipping redeliveries.
func (p *Poller) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if seen, _ := p.seen.ContainsOrAdd(update.UpdateID, struct{}{}); seen {
		p.logger.Debug("TELEGRAM", "Duplicate update skipped", map[string]interface{}{"update_id": update.UpdateID})
		return
	}

	ev, ok := ToEvent(update)
	if !ok {
		return
	}
	if err := p.wizard.Handle(ctx, p.messenger, ev); err != nil {
		p.logger.Error("TELEGRAM", "Failed to handle update", map[string]interface{}{
			"update_id": update.UpdateID,
			"user_id":   ev.UserID,
			"error":     err.Error(),
		})
	}
}

// ToEvent converts an update into a wizard event. Updates without a sender or
// chat are ignored.
func ToEvent(update tgbotapi.Update) (wizard.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
			return wizard.Event{}, false
		}
		return wizard.Event{
			Kind:       wizard.EventCallback,
			UserID:     cq.From.ID,
			ChatID:     cq.Message.Chat.ID,
			MessageID:  cq.Message.MessageID,
			CallbackID: cq.ID,
			Data:       cq.Data,
		}, true
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil {
			return wizard.Event{}, false
		}
		ev := wizard.Event{UserID: msg.From.ID, ChatID: msg.Chat.ID, MessageID: msg.MessageID}
		if msg.IsCommand() {
			ev.Kind = wizard.EventCommand
			ev.Command = msg.Command()
			return ev, true
		}
		if msg.Text == "" {
			return wizard.Event{}, false
		}
		ev.Kind = wizard.EventText
		ev.Text = msg.Text
		return ev, true
	}
	return wizard.Event{}, false
}
