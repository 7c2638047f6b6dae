package mood

import (
	"fmt"
	"math"
	"strings"
)

// Scoring selects how a session score is reduced from its entries.
type Scoring string

const (
	// ScoringAverage is the mean weight, rounded to two decimals. Chart domain [-2, 2].
	ScoringAverage Scoring = "average"
	// ScoringSum is the plain sum of weights.
	ScoringSum Scoring = "sum"
)

// ParseScoring accepts "average" or "sum", case-insensitively.
func ParseScoring(raw string) (Scoring, error) {
	switch s := Scoring(strings.ToLower(strings.TrimSpace(raw))); s {
	case ScoringAverage, ScoringSum:
		return s, nil
	case "":
		return ScoringAverage, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q", raw)
	}
}

// SessionRef identifies a session for aggregation.
type SessionRef struct {
	ID   string
	Name string
}

// SessionStats is one point of the per-session chart.
type SessionStats struct {
	SessionID    string  `json:"sessionId"`
	Session      string  `json:"session"`
	Entries      int     `json:"entries"`
	Score        float64 `json:"score"`
	DominantMood Tag     `json:"dominantMood"`
	Emoji        string  `json:"emoji"`
}

// Summary label values.
const (
	SummaryPositive = "Positive"
	SummaryNegative = "Negative"
	SummaryNeutral  = "Neutral"
)

// WeeklySummary classifies the signed sum of every weight in the log.
type WeeklySummary struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// Display renders the summary the way the stats panel shows it, e.g. "Positive 😊".
func (w WeeklySummary) Display() string {
	return w.Label + " " + w.Emoji
}

// Stats is the full aggregation result.
type Stats struct {
	Scoring  Scoring        `json:"scoring"`
	Sessions []SessionStats `json:"sessions"`
	Weekly   WeeklySummary  `json:"weekly"`
}

// Aggregate reduces the log into per-session stats, in session order, and the
// weekly summary. Entries of sessions not in the list count toward the weekly
// summary only.
func Aggregate(log Log, sessions []SessionRef, scoring Scoring) Stats {
	if scoring != ScoringSum {
		scoring = ScoringAverage
	}

	out := Stats{
		Scoring:  scoring,
		Sessions: make([]SessionStats, 0, len(sessions)),
		Weekly:   Weekly(log),
	}
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, aggregateSession(s, log.BySession(s.ID), scoring))
	}
	return out
}

func aggregateSession(ref SessionRef, entries []Entry, scoring Scoring) SessionStats {
	dominant := DominantMood(entries)
	stats := SessionStats{
		SessionID:    ref.ID,
		Session:      ref.Name,
		Entries:      len(entries),
		DominantMood: dominant,
		Emoji:        dominant.Emoji(),
	}
	if len(entries) == 0 {
		return stats
	}

	sum := 0
	for _, e := range entries {
		sum += e.Mood.Weight()
	}
	if scoring == ScoringSum {
		stats.Score = float64(sum)
		return stats
	}
	stats.Score = round2(float64(sum) / float64(len(entries)))
	return stats
}

// DominantMood returns the most frequent mood among entries. Ties go to the
// mood seen first; no entries yields Neutral.
func DominantMood(entries []Entry) Tag {
	counts := make(map[Tag]int, len(entries))
	order := make([]Tag, 0, len(entries))
	for _, e := range entries {
		if counts[e.Mood] == 0 {
			order = append(order, e.Mood)
		}
		counts[e.Mood]++
	}

	best, bestCount := Neutral, 0
	for _, t := range order {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best
}

// Weekly computes the summary over the whole log.
func Weekly(log Log) WeeklySummary {
	sum := 0
	for _, e := range log.entries {
		sum += e.Mood.Weight()
	}

	switch {
	case sum > 0:
		return WeeklySummary{Score: sum, Label: SummaryPositive, Emoji: "😊"}
	case sum < 0:
		return WeeklySummary{Score: sum, Label: SummaryNegative, Emoji: "😞"}
	default:
		return WeeklySummary{Score: sum, Label: SummaryNeutral, Emoji: "😐"}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
