package mood

import "time"

// DateLayout is the calendar-day format of Entry.Date.
const DateLayout = "2006-01-02"

// Entry is one mood observation, recorded once per user utterance.
type Entry struct {
	Date    string `json:"date"`
	Mood    Tag    `json:"mood"`
	Session string `json:"session"`
}

// NewEntry stamps an observation with the UTC calendar day of at.
func NewEntry(at time.Time, mood Tag, sessionID string) Entry {
	if !mood.Valid() {
		mood = Neutral
	}
	return Entry{Date: at.UTC().Format(DateLayout), Mood: mood, Session: sessionID}
}

// Log is an append-only, insertion-ordered sequence of entries. The zero value
// is ready to use. Log is not safe for concurrent mutation.
type Log struct {
	entries []Entry
}

// NewLog builds a log holding entries in the given order.
func NewLog(entries ...Entry) Log {
	var l Log
	for _, e := range entries {
		l.Append(e)
	}
	return l
}

// Append adds e at the end of the log. Invalid moods are stored as Neutral.
func (l *Log) Append(e Entry) {
	if !e.Mood.Valid() {
		e.Mood = Neutral
	}
	l.entries = append(l.entries, e)
}

// Len returns the number of entries.
func (l Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries in insertion order.
func (l Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// BySession returns the entries of one session in insertion order.
func (l Log) BySession(sessionID string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Session == sessionID {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns an independent copy of the log.
func (l Log) Clone() Log {
	return Log{entries: l.Entries()}
}

// RemoveSession drops every entry of sessionID and reports how many were
// removed. It exists only for cascading session deletion.
func (l *Log) RemoveSession(sessionID string) int {
	kept := l.entries[:0:0]
	for _, e := range l.entries {
		if e.Session != sessionID {
			kept = append(kept, e)
		}
	}
	removed := len(l.entries) - len(kept)
	l.entries = kept
	return removed
}
