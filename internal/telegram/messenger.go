package telegram

import (
	"context"

	"ai-deckbot-be/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const ChannelName = "telegram"

// botAPI is the subset of *tgbotapi.BotAPI the channel uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Messenger implements wizard.Messenger on top of the Bot API.
type Messenger struct {
	bot botAPI
}

var _ wizard.Messenger = (*Messenger)(nil)

func NewMessenger(bot botAPI) *Messenger {
	return &Messenger{bot: bot}
}

func (m *Messenger) Channel() string {
	return ChannelName
}

func markup(kb wizard.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	mk := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &mk
}

func (m *Messenger) SendText(_ context.Context, chatID int64, text string, kb wizard.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if mk := markup(kb); mk != nil {
		msg.ReplyMarkup = *mk
	}
	sent, err := m.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (m *Messenger) EditText(_ context.Context, chatID int64, messageID int, text string, kb wizard.Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = markup(kb)
	_, err := m.bot.Send(edit)
	return err
}

func (m *Messenger) SendDocument(_ context.Context, chatID int64, fileName string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: data})
	doc.Caption = caption
	_, err := m.bot.Send(doc)
	return err
}

func (m *Messenger) AnswerCallback(_ context.Context, callbackID string) error {
	_, err := m.bot.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}
