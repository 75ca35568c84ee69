package wizard

import "context"

// Button is an inline keyboard button. Data is echoed back in a callback event.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Keyboard rows of buttons. A nil keyboard sends plain text.
type Keyboard [][]Button

// Messenger is the outbound side of a chat transport.
type Messenger interface {
	// Channel names the transport for logs and metrics.
	Channel() string
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) (messageID int, err error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb Keyboard) error
	SendDocument(ctx context.Context, chatID int64, fileName string, data []byte, caption string) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

type EventKind string

const (
	EventCommand  EventKind = "command"
	EventText     EventKind = "text"
	EventCallback EventKind = "callback"
)

// Event is one inbound user action, already stripped of transport details.
type Event struct {
	Kind      EventKind
	UserID    int64
	ChatID    int64
	MessageID int // message the callback button belongs to

	Command    string // without the leading slash
	Text       string
	CallbackID string
	Data       string
}
