package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGratefulUtterance(t *testing.T) {
	assert.Equal(t, Happy, Classify("I am so happy and grateful today"))
}

func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Tag
	}{
		{name: "happy beats sad", text: "I'm sad but also happy it's over", want: Happy},
		{name: "sad beats angry", text: "I'm angry and sad", want: Sad},
		{name: "angry beats stressed", text: "so stressed and furious", want: Angry},
		{name: "stressed beats anxious", text: "worried about the deadline", want: Stressed},
		{name: "anxious alone", text: "feeling nervous tonight", want: Anxious},
		{name: "no trigger", text: "I went to the store", want: Neutral},
		{name: "empty", text: "", want: Neutral},
		{name: "upper case", text: "WHY AM I SO ANGRY", want: Angry},
		{name: "word boundary", text: "the badger was saddled", want: Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	inputs := []string{"", " ", "🙂🙂", "\x00\xff", "happy!!!", "(((", "deadline?", "a\nb\tc"}
	for _, in := range inputs {
		assert.True(t, Classify(in).Valid(), "input %q", in)
		assert.True(t, ExtendedLexicon().Classify(in).Valid(), "input %q", in)
	}
}

func TestExtendedLexiconKeepsReferenceOrder(t *testing.T) {
	lex := ExtendedLexicon()

	assert.Equal(t, Tired, lex.Classify("completely exhausted after work"))
	assert.Equal(t, Lonely, lex.Classify("I feel so alone"))
	assert.Equal(t, Depressed, lex.Classify("everything feels hopeless"))
	// A basic trigger still wins over an extended one.
	assert.Equal(t, Sad, lex.Classify("tired and sad"))
	assert.Equal(t, Neutral, BasicLexicon().Classify("completely exhausted after work"))

	assert.Equal(t, []Tag{Happy, Sad, Angry, Stressed, Anxious, Tired, Lonely, Relieved, Depressed}, lex.Moods())
}

func TestNewLexiconSkipsInvalidRules(t *testing.T) {
	lex := NewLexicon([]Rule{
		{Mood: Tag("bogus"), Words: []string{"x"}},
		{Mood: Lonely},
		{Mood: Tired, Words: []string{" ", "sleepy"}},
	})
	assert.Equal(t, []Tag{Tired}, lex.Moods())
	assert.Equal(t, Tired, lex.Classify("so sleepy"))

	var nilLex *Lexicon
	assert.Equal(t, Neutral, nilLex.Classify("happy"))
}
