package mood

import "strings"

// externalLabels maps the vocabulary of the remote emotion model
// (j-hartmann/emotion-english-distilroberta-base) onto Tag.
var externalLabels = map[string]Tag{
	"sadness":  Sad,
	"anger":    Angry,
	"fear":     Anxious,
	"joy":      Happy,
	"neutral":  Neutral,
	"disgust":  Stressed,
	"surprise": Relieved,
}

// Normalize maps an external classifier label onto Tag. It is total: anything
// outside the known vocabulary, including the empty string, becomes Neutral.
// Matching is case-insensitive but otherwise exact.
func Normalize(label string) Tag {
	if tag, ok := externalLabels[strings.ToLower(label)]; ok {
		return tag
	}
	return Neutral
}

// ExternalLabels lists the labels Normalize recognizes.
func ExternalLabels() []string {
	return []string{"sadness", "anger", "fear", "joy", "neutral", "disgust", "surprise"}
}
