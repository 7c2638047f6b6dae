package ai

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/rantme/backend/internal/model/chat"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
)

// BasePrompt is sent ahead of every conversation regardless of tone.
const BasePrompt = `You’re RantMe: think of yourself as a close friend, not a therapist.
Keep replies short (1–3 sentences), casual, and genuine.
Don't overuse emojis, at most one.
Acknowledge what they said, add a quick follow-up or empathize, and drop the extra fluff.
Sound like you’re typing fast in a chat.

Examples:
- Ugh, that stinks. What part was the worst?
- Yikes, that’s rough. How did you handle it?
- Wow, more work on top of that? How much did they pile on?

Always:
• Use plain, conversational English
• Limit yourself to one emoji max
• Never lecture (“you should…”), just listen`

// PromptBuilder turns a tone and a chat history into model input.
type PromptBuilder struct {
	tones tone.Store
	limit int
}

// NewPromptBuilder creates a builder. limit caps the history sent to the
// model; zero keeps everything.
func NewPromptBuilder(tones tone.Store, limit int) *PromptBuilder {
	return &PromptBuilder{tones: tones, limit: limit}
}

// SystemMessages returns the base prompt followed by the tone prompt. Unknown
// tones contribute nothing.
func (b *PromptBuilder) SystemMessages(t tone.Tone) []*schema.Message {
	messages := []*schema.Message{schema.SystemMessage(BasePrompt)}
	if p := tone.PromptFor(b.tones, t); p != "" {
		messages = append(messages, schema.SystemMessage(p))
	}
	return messages
}

// History converts role/content pairs into schema messages, dropping blank
// and unknown roles.
func (b *PromptBuilder) History(items []chat.HistoryItem) []*schema.Message {
	start := 0
	if b.limit > 0 && len(items) > b.limit {
		start = len(items) - b.limit
	}

	history := make([]*schema.Message, 0, len(items)-start)
	for _, item := range items[start:] {
		if strings.TrimSpace(item.Content) == "" {
			continue
		}
		switch item.Role {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(item.Content))
		case chat.SenderAssistant:
			history = append(history, schema.AssistantMessage(item.Content, nil))
		}
	}
	return history
}

// Input builds the chain input for one completion.
func (b *PromptBuilder) Input(items []chat.HistoryItem, t tone.Tone) map[string]any {
	return map[string]any{
		"system":  b.SystemMessages(t),
		"history": b.History(items),
	}
}
