package store

import "time"

// Session is the per-user wizard state held in memory between chat turns.
type Session struct {
	UserID int64  `json:"user_id"`
	ChatID int64  `json:"chat_id"`
	State  string `json:"state"` // see State* constants

	// Template is the chosen template name; empty means from scratch.
	Template   string `json:"template,omitempty"`
	Topic      string `json:"topic,omitempty"`
	SlideCount int    `json:"slide_count,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

const (
	StateIdle          = "idle"
	StateAwaitingTopic = "awaiting_topic"
	StateAwaitingCount = "awaiting_count"
	StateGenerating    = "generating"
)

// SessionStore keeps wizard sessions keyed by user.
type SessionStore interface {
	Get(userID int64) (*Session, bool)
	Save(session *Session)
	Remove(userID int64)
}
