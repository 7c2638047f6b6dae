package tone

import "strings"

// Tone is the reply style the user selects for the assistant.
type Tone string

const (
	Empathetic   Tone = "empathetic"
	Motivational Tone = "motivational"
	Reflective   Tone = "reflective"
	Funny        Tone = "funny"
)

// Default is the tone of a freshly created session.
const Default = Empathetic

// Profile describes a tone for the frontend selector and the prompt builder.
type Profile struct {
	ID     Tone   `json:"id"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// Valid reports whether t is one of the known tones.
func (t Tone) Valid() bool {
	switch t {
	case Empathetic, Motivational, Reflective, Funny:
		return true
	default:
		return false
	}
}

// Parse maps raw onto a tone, case-insensitively.
func Parse(raw string) (Tone, bool) {
	t := Tone(strings.ToLower(strings.TrimSpace(raw)))
	return t, t.Valid()
}

// Seed provides the built-in tones in selector order.
func Seed() []Profile {
	return []Profile{
		{
			ID:     Empathetic,
			Label:  "Empathetic",
			Prompt: "The user has selected an empathetic tone for their conversation, now lean extra into empathy—validate feelings deeply and offer to listen.",
		},
		{
			ID:     Motivational,
			Label:  "Motivational",
			Prompt: "The user has selected a motivational tone for their conversation, now add a bit of encouragement—boost their confidence with positive affirmations.",
		},
		{
			ID:     Reflective,
			Label:  "Reflective",
			Prompt: "The user has selected a reflective tone for their conversation, now gently ask open-ended questions—help them explore their own thoughts.",
		},
		{
			ID:     Funny,
			Label:  "Light-hearted",
			Prompt: "The user has selected a funny tone for their conversation, now sprinkle in gentle humor—lighten the mood with a small joke or playful remark.",
		},
	}
}
