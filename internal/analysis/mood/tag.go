// Package mood implements the mood tracking engine: local lexicon classification,
// normalization of external emotion labels, the mood log, per-session aggregation
// and the theme table. Everything here is pure and safe to call from any goroutine.
package mood

import "strings"

// Tag is one of the ten canonical moods used throughout the app.
type Tag string

const (
	Happy     Tag = "happy"
	Relieved  Tag = "relieved"
	Neutral   Tag = "neutral"
	Sad       Tag = "sad"
	Anxious   Tag = "anxious"
	Angry     Tag = "angry"
	Tired     Tag = "tired"
	Stressed  Tag = "stressed"
	Lonely    Tag = "lonely"
	Depressed Tag = "depressed"
)

var allTags = []Tag{Happy, Relieved, Neutral, Sad, Anxious, Angry, Tired, Stressed, Lonely, Depressed}

// weights feed the session score and the weekly summary.
var weights = map[Tag]int{
	Happy:     2,
	Relieved:  1,
	Neutral:   0,
	Sad:       -2,
	Anxious:   -1,
	Angry:     -2,
	Tired:     -1,
	Stressed:  -1,
	Lonely:    -1,
	Depressed: -2,
}

var emojis = map[Tag]string{
	Happy:     "😊",
	Relieved:  "😌",
	Neutral:   "😐",
	Sad:       "😢",
	Anxious:   "😰",
	Angry:     "😠",
	Tired:     "😴",
	Stressed:  "😫",
	Lonely:    "😞",
	Depressed: "💧",
}

// UnknownEmoji is shown for anything outside the tag set.
const UnknownEmoji = "❓"

// AllTags returns the tag set in canonical order.
func AllTags() []Tag {
	return append([]Tag(nil), allTags...)
}

// Valid reports whether t belongs to the tag set.
func (t Tag) Valid() bool {
	_, ok := weights[t]
	return ok
}

// Weight returns the signed score of the tag, 0 for unknown tags.
func (t Tag) Weight() int {
	return weights[t]
}

// Emoji returns the decorative glyph of the tag.
func (t Tag) Emoji() string {
	if e, ok := emojis[t]; ok {
		return e
	}
	return UnknownEmoji
}

func (t Tag) String() string {
	return string(t)
}

// ParseTag maps raw onto the tag set. Unknown input yields Neutral and false.
func ParseTag(raw string) (Tag, bool) {
	t := Tag(strings.ToLower(strings.TrimSpace(raw)))
	if t.Valid() {
		return t, true
	}
	return Neutral, false
}
