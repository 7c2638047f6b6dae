package mood

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTable(t *testing.T) {
	tests := map[string]Tag{
		"sadness":  Sad,
		"anger":    Angry,
		"Anger":    Angry,
		"FEAR":     Anxious,
		"joy":      Happy,
		"neutral":  Neutral,
		"disgust":  Stressed,
		"surprise": Relieved,
		"banana":   Neutral,
		"":         Neutral,
		" joy":     Neutral,
		"sad":      Neutral,
		"joy\n":    Neutral,
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "label %q", in)
	}
}

func TestNormalizeAngerResolvesAngryTheme(t *testing.T) {
	tag := Normalize("Anger")
	assert.Equal(t, Angry, tag)
	assert.Equal(t, "#0D47A1", ResolveTheme(tag).TextColor)
}

func TestNormalizeOnlyKnownLabelsLeaveNeutral(t *testing.T) {
	known := make(map[string]bool)
	for _, l := range ExternalLabels() {
		known[l] = true
	}
	for _, in := range []string{"happy", "angry", "love", "optimism", "sadness ", "Sadness", "é", "neutral"} {
		got := Normalize(in)
		assert.True(t, got.Valid())
		if !known[strings.ToLower(in)] {
			assert.Equal(t, Neutral, got, "label %q", in)
		}
	}
}

func TestParseTag(t *testing.T) {
	tag, ok := ParseTag(" Lonely ")
	assert.True(t, ok)
	assert.Equal(t, Lonely, tag)

	tag, ok = ParseTag("joy")
	assert.False(t, ok)
	assert.Equal(t, Neutral, tag)
}

