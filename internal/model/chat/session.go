package chat

import (
	"time"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
)

// Session is one named venting conversation ("Day 1", "Day 2", ...).
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tone      tone.Tone `json:"tone"`
	Mood      mood.Tag  `json:"mood"`
	CreatedAt time.Time `json:"createdAt"`
}

// Theme is the presentation theme restored when the session is reopened.
func (s Session) Theme() mood.Theme {
	return mood.ResolveTheme(s.Mood)
}

// Ref returns the aggregation key of the session.
func (s Session) Ref() mood.SessionRef {
	return mood.SessionRef{ID: s.ID, Name: s.Name}
}
