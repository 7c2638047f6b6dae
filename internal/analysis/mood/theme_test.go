package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveThemeCoversEveryTag(t *testing.T) {
	for _, tag := range AllTags() {
		theme := ResolveTheme(tag)
		assert.Equal(t, tag, theme.Mood)
		assert.NotEmpty(t, theme.Background, "tag %s", tag)
		assert.NotEmpty(t, theme.TextColor, "tag %s", tag)
		assert.NotEmpty(t, theme.Tint, "tag %s", tag)
	}
	assert.Len(t, Themes(), 10)
}

func TestResolveThemeFallsBackToNeutral(t *testing.T) {
	theme := ResolveTheme(Tag("ecstatic"))
	assert.Equal(t, Neutral, theme.Mood)
	assert.Equal(t, "#000000", theme.TextColor)
	assert.True(t, theme.IsNeutral())
}

func TestThemeAccent(t *testing.T) {
	assert.Equal(t, "#D8CCF1", ResolveTheme(Neutral).Accent())
	assert.Equal(t, "#90B2E3", ResolveTheme(Angry).Accent())
}

func TestTagWeightsAndEmoji(t *testing.T) {
	assert.Equal(t, 2, Happy.Weight())
	assert.Equal(t, -2, Depressed.Weight())
	assert.Equal(t, 0, Tag("nope").Weight())
	assert.Equal(t, "💧", Depressed.Emoji())
	assert.Equal(t, UnknownEmoji, Tag("nope").Emoji())
	assert.Len(t, AllTags(), 10)
}
