package mood

import (
	"regexp"
	"strings"
)

// Rule binds a mood to the trigger words that select it.
type Rule struct {
	Mood    Tag
	Words   []string
	pattern *regexp.Regexp
}

// Lexicon is the local fallback classifier. Rules are tested in order and the
// first match wins, so the order decides how mixed utterances classify.
type Lexicon struct {
	rules []Rule
}

var basicRules = []Rule{
	{Mood: Happy, Words: []string{
		"happy", "glad", "grateful", "thankful", "great", "awesome", "amazing", "excited",
		"joy", "joyful", "love", "loving", "wonderful", "fantastic", "proud",
	}},
	{Mood: Sad, Words: []string{
		"sad", "unhappy", "down", "upset", "cry", "crying", "cried", "heartbroken",
		"miserable", "hurt", "hurts", "lost", "grief", "tears",
	}},
	{Mood: Angry, Words: []string{
		"angry", "mad", "furious", "annoyed", "pissed", "hate", "rage", "irritated",
		"frustrated", "frustrating", "livid",
	}},
	{Mood: Stressed, Words: []string{
		"stressed", "stress", "stressful", "overwhelmed", "pressure", "deadline", "deadlines",
		"swamped", "burnout", "burned out", "too much",
	}},
	{Mood: Anxious, Words: []string{
		"anxious", "anxiety", "worried", "worry", "worrying", "nervous", "scared", "afraid",
		"panic", "panicking", "fear", "uneasy",
	}},
}

var extendedRules = []Rule{
	{Mood: Tired, Words: []string{
		"tired", "exhausted", "sleepy", "drained", "worn out", "fatigued", "no energy",
	}},
	{Mood: Lonely, Words: []string{
		"lonely", "alone", "isolated", "left out", "nobody", "no one",
	}},
	{Mood: Relieved, Words: []string{
		"relieved", "relief", "finally", "phew", "calm", "better now",
	}},
	{Mood: Depressed, Words: []string{
		"depressed", "depression", "hopeless", "empty", "numb", "worthless", "pointless",
	}},
}

// NewLexicon compiles rules into a classifier. Rules keep their order.
func NewLexicon(rules []Rule) *Lexicon {
	compiled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if len(r.Words) == 0 || !r.Mood.Valid() {
			continue
		}
		quoted := make([]string, 0, len(r.Words))
		for _, w := range r.Words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
		if len(quoted) == 0 {
			continue
		}
		r.pattern = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
		r.Words = append([]string(nil), r.Words...)
		compiled = append(compiled, r)
	}
	return &Lexicon{rules: compiled}
}

// BasicLexicon uses the reference ordering happy, sad, angry, stressed, anxious.
func BasicLexicon() *Lexicon {
	return NewLexicon(basicRules)
}

// ExtendedLexicon appends tired, lonely, relieved and depressed after the basic
// rules, leaving the reference ordering untouched.
func ExtendedLexicon() *Lexicon {
	rules := make([]Rule, 0, len(basicRules)+len(extendedRules))
	rules = append(rules, basicRules...)
	rules = append(rules, extendedRules...)
	return NewLexicon(rules)
}

// Classify returns the mood of the first rule matching text, or Neutral.
func (l *Lexicon) Classify(text string) Tag {
	if l == nil {
		return Neutral
	}
	lowered := strings.ToLower(text)
	for _, r := range l.rules {
		if r.pattern.MatchString(lowered) {
			return r.Mood
		}
	}
	return Neutral
}

// Moods lists the moods the lexicon can produce besides Neutral, in priority order.
func (l *Lexicon) Moods() []Tag {
	out := make([]Tag, 0, len(l.rules))
	for _, r := range l.rules {
		out = append(out, r.Mood)
	}
	return out
}

// Classify runs the basic lexicon.
func Classify(text string) Tag {
	return defaultLexicon.Classify(text)
}

var defaultLexicon = BasicLexicon()
