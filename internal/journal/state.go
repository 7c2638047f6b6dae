// Package journal holds the application state of the mood journal and the
// events that change it. Apply never mutates its input, so every transition
// can be tested without a server or a clock.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/model/chat"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrInvalidTone     = errors.New("invalid tone")
	ErrInvalidMessage  = errors.New("invalid message")
)

// DefaultSessionID is the id of the session every journal starts with.
const DefaultSessionID = "default"

// Greeting opens every session.
const Greeting = "Greetings! How can I help you today?"

// State is an immutable snapshot of sessions, messages and the mood log.
type State struct {
	sessions []chat.Session
	messages map[string][]chat.Message
	log      mood.Log
	current  string
	nextDay  int
}

// New returns the initial state: a single "Day 1" session that is current.
func New(at time.Time) State {
	s, err := Apply(State{nextDay: 1}, CreateSession{ID: DefaultSessionID, At: at, GreetingID: DefaultSessionID + "-greeting"})
	if err != nil {
		panic(fmt.Sprintf("journal: initial state: %v", err))
	}
	return s
}

// Sessions returns the sessions in creation order.
func (s State) Sessions() []chat.Session {
	return append([]chat.Session(nil), s.sessions...)
}

// Session looks up a session by id.
func (s State) Session(id string) (chat.Session, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.sessions[i], true
	}
	return chat.Session{}, false
}

// Messages returns the transcript of a session.
func (s State) Messages(sessionID string) []chat.Message {
	return append([]chat.Message(nil), s.messages[sessionID]...)
}

// Log returns a copy of the mood log.
func (s State) Log() mood.Log {
	return s.log.Clone()
}

// Current returns the id of the selected session, "" when none is left.
func (s State) Current() string {
	return s.current
}

// Refs lists the sessions as aggregation keys.
func (s State) Refs() []mood.SessionRef {
	refs := make([]mood.SessionRef, 0, len(s.sessions))
	for _, sess := range s.sessions {
		refs = append(refs, sess.Ref())
	}
	return refs
}

// Stats aggregates the mood log over the current sessions.
func (s State) Stats(scoring mood.Scoring) mood.Stats {
	return mood.Aggregate(s.log, s.Refs(), scoring)
}

func (s State) indexOf(id string) int {
	for i, sess := range s.sessions {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	out := State{
		sessions: append([]chat.Session(nil), s.sessions...),
		messages: make(map[string][]chat.Message, len(s.messages)),
		log:      s.log.Clone(),
		current:  s.current,
		nextDay:  s.nextDay,
	}
	for id, msgs := range s.messages {
		out.messages[id] = append([]chat.Message(nil), msgs...)
	}
	return out
}

// Event is a state transition.
type Event interface {
	apply(s *State) error
}

// Apply returns the state that results from e. On error the input state is
// still valid and unchanged.
func Apply(s State, e Event) (State, error) {
	next := s.clone()
	if next.nextDay < 1 {
		next.nextDay = 1
	}
	if err := e.apply(&next); err != nil {
		return s, err
	}
	return next, nil
}

// CreateSession appends a "Day N" session with the default tone and a
// greeting from the assistant, and selects it.
type CreateSession struct {
	ID         string
	GreetingID string
	At         time.Time
}

func (e CreateSession) apply(s *State) error {
	if e.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidMessage)
	}
	if s.indexOf(e.ID) >= 0 {
		return ErrSessionExists
	}

	sess := chat.Session{
		ID:        e.ID,
		Name:      fmt.Sprintf("Day %d", s.nextDay),
		Tone:      tone.Default,
		Mood:      mood.Neutral,
		CreatedAt: e.At,
	}
	s.nextDay++
	s.sessions = append(s.sessions, sess)
	s.messages[sess.ID] = []chat.Message{{
		ID:        e.GreetingID,
		SessionID: sess.ID,
		Sender:    chat.SenderAssistant,
		Content:   Greeting,
		CreatedAt: e.At,
	}}
	s.current = sess.ID
	return nil
}

// SelectSession makes a session current.
type SelectSession struct {
	ID string
}

func (e SelectSession) apply(s *State) error {
	if s.indexOf(e.ID) < 0 {
		return ErrSessionNotFound
	}
	s.current = e.ID
	return nil
}

// SelectTone stores the reply tone of a session.
type SelectTone struct {
	SessionID string
	Tone      tone.Tone
}

func (e SelectTone) apply(s *State) error {
	i := s.indexOf(e.SessionID)
	if i < 0 {
		return ErrSessionNotFound
	}
	if !e.Tone.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTone, e.Tone)
	}
	s.sessions[i].Tone = e.Tone
	return nil
}

// RecordUserMessage appends a user utterance with its resolved mood, moves the
// session theme to that mood and logs the observation.
type RecordUserMessage struct {
	SessionID string
	MessageID string
	Text      string
	Mood      mood.Tag
	At        time.Time
}

func (e RecordUserMessage) apply(s *State) error {
	i := s.indexOf(e.SessionID)
	if i < 0 {
		return ErrSessionNotFound
	}
	if e.Text == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidMessage)
	}

	tag := e.Mood
	if !tag.Valid() {
		tag = mood.Neutral
	}

	s.messages[e.SessionID] = append(s.messages[e.SessionID], chat.Message{
		ID:        e.MessageID,
		SessionID: e.SessionID,
		Sender:    chat.SenderUser,
		Content:   e.Text,
		Mood:      tag,
		CreatedAt: e.At,
	})
	s.sessions[i].Mood = tag
	s.log.Append(mood.NewEntry(e.At, tag, e.SessionID))
	return nil
}

// RecordReply appends an assistant reply.
type RecordReply struct {
	SessionID string
	MessageID string
	Text      string
	At        time.Time
}

func (e RecordReply) apply(s *State) error {
	if s.indexOf(e.SessionID) < 0 {
		return ErrSessionNotFound
	}
	s.messages[e.SessionID] = append(s.messages[e.SessionID], chat.Message{
		ID:        e.MessageID,
		SessionID: e.SessionID,
		Sender:    chat.SenderAssistant,
		Content:   e.Text,
		CreatedAt: e.At,
	})
	return nil
}

// DeleteSession removes a session and its transcript. Its mood entries stay in
// the log unless Cascade is set; orphaned entries still count toward the
// weekly summary.
type DeleteSession struct {
	ID      string
	Cascade bool
}

func (e DeleteSession) apply(s *State) error {
	i := s.indexOf(e.ID)
	if i < 0 {
		return ErrSessionNotFound
	}

	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	delete(s.messages, e.ID)
	if e.Cascade {
		s.log.RemoveSession(e.ID)
	}

	if s.current == e.ID {
		s.current = ""
		if len(s.sessions) > 0 {
			s.current = s.sessions[0].ID
		}
	}
	return nil
}
