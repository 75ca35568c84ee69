package websocket

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"ai-deckbot-be/internal/wizard"
)

// InboundFrame is what a web client sends.
type InboundFrame struct {
	Type  string `json:"type"` // command, text or callback
	Value string `json:"value"`
}

// OutboundFrame is what the wizard sends back. Document bytes are base64.
type OutboundFrame struct {
	Type      string          `json:"type"` // message, edit, document, error
	MessageID int             `json:"message_id,omitempty"`
	Text      string          `json:"text,omitempty"`
	Keyboard  wizard.Keyboard `json:"keyboard,omitempty"`
	FileName  string          `json:"file_name,omitempty"`
	Data      string          `json:"data,omitempty"`
}

var ErrUnknownFrame = errors.New("unknown frame type")

// ParseFrame decodes an inbound frame into a wizard event for userID.
// A callback's MessageID is left zero so the wizard answers with new messages.
func ParseFrame(raw []byte, userID int64) (wizard.Event, error) {
	var f InboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return wizard.Event{}, err
	}

	ev := wizard.Event{UserID: userID, ChatID: userID}
	switch wizard.EventKind(f.Type) {
	case wizard.EventCommand:
		ev.Kind = wizard.EventCommand
		ev.Command = strings.TrimPrefix(strings.TrimSpace(f.Value), "/")
	case wizard.EventText:
		ev.Kind = wizard.EventText
		ev.Text = f.Value
	case wizard.EventCallback:
		ev.Kind = wizard.EventCallback
		ev.Data = f.Value
	default:
		return wizard.Event{}, ErrUnknownFrame
	}
	return ev, nil
}

func documentFrame(fileName string, data []byte, caption string) OutboundFrame {
	return OutboundFrame{
		Type:     "document",
		Text:     caption,
		FileName: fileName,
		Data:     base64.StdEncoding.EncodeToString(data),
	}
}
