package chat

import (
	"time"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
)

// Senders of a message.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one chat turn. Mood is only set on user messages.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Mood      mood.Tag  `json:"mood,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryItem is the role/content pair sent to the chat completion API.
type HistoryItem struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// History converts messages into the ordered chat completion history.
func History(messages []Message) []HistoryItem {
	history := make([]HistoryItem, 0, len(messages))
	for _, msg := range messages {
		role := SenderAssistant
		if msg.Sender == SenderUser {
			role = SenderUser
		}
		history = append(history, HistoryItem{Role: role, Content: msg.Content})
	}
	return history
}
