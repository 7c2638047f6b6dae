package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/journal"
	"github.com/zhouzirui/rantme/backend/internal/logger"
	"github.com/zhouzirui/rantme/backend/internal/model/chat"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
	"github.com/zhouzirui/rantme/backend/internal/service/emotion"
)

var (
	ErrSessionNotFound = journal.ErrSessionNotFound
	ErrInvalidTone     = journal.ErrInvalidTone
	ErrEmptyMessage    = errors.New("message text is required")
	ErrTurnInProgress  = errors.New("a turn is already in progress for this session")
)

// FallbackReply substitutes the assistant reply when the chat collaborator fails.
const FallbackReply = "Sorry, I'm having trouble right now."

// MoodDetector resolves the mood of an utterance. It never fails.
type MoodDetector interface {
	Detect(ctx context.Context, text string) emotion.Detection
}

// Replier produces the assistant reply for a history in a tone.
type Replier interface {
	Reply(ctx context.Context, history []chat.HistoryItem, t tone.Tone, onDelta func(string)) (string, error)
}

// Options tune the service.
type Options struct {
	Scoring       mood.Scoring
	CascadeDelete bool
	Now           func() time.Time
	NewID         func() string
}

// TurnOptions carries per-turn callbacks used by streaming transports.
type TurnOptions struct {
	OnMood  func(emotion.Detection)
	OnDelta func(string)
}

// TurnResult is the outcome of one user turn.
type TurnResult struct {
	User          chat.Message `json:"user"`
	Reply         chat.Message `json:"reply"`
	Mood          mood.Tag     `json:"mood"`
	Label         string       `json:"label"`
	Theme         mood.Theme   `json:"theme"`
	MoodDegraded  bool         `json:"moodDegraded,omitempty"`
	ReplyDegraded bool         `json:"replyDegraded,omitempty"`
}

// SessionView is a session decorated for the session list.
type SessionView struct {
	chat.Session
	Theme   mood.Theme `json:"theme"`
	Accent  string     `json:"accent"`
	Current bool       `json:"current"`
}

// Service encapsulates conversation state management.
type Service struct {
	mu       sync.RWMutex
	state    journal.State
	inflight map[string]struct{}

	detector MoodDetector
	replier  Replier
	opts     Options
	log      *log.Logger
}

// NewService bootstraps the in-memory journal with its "Day 1" session.
// A nil replier answers every turn with FallbackReply.
func NewService(detector MoodDetector, replier Replier, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Scoring == "" {
		opts.Scoring = mood.ScoringAverage
	}
	return &Service{
		state:    journal.New(opts.Now()),
		inflight: make(map[string]struct{}),
		detector: detector,
		replier:  replier,
		opts:     opts,
		log:      logger.For("chat"),
	}
}

// CreateSession appends a new "Day N" session and makes it current.
func (s *Service) CreateSession(_ context.Context) (SessionView, error) {
	id := s.opts.NewID()
	event := journal.CreateSession{ID: id, GreetingID: s.opts.NewID(), At: s.opts.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.apply(event); err != nil {
		return SessionView{}, err
	}
	sess, _ := s.state.Session(id)
	return s.view(sess), nil
}

// ListSessions returns the sessions in creation order.
func (s *Service) ListSessions(_ context.Context) []SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.state.Sessions()
	views := make([]SessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, s.view(sess))
	}
	return views
}

// GetSession retrieves a session and its transcript.
func (s *Service) GetSession(_ context.Context, sessionID string) (SessionView, []chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.state.Session(sessionID)
	if !ok {
		return SessionView{}, nil, ErrSessionNotFound
	}
	return s.view(sess), s.state.Messages(sessionID), nil
}

// Current returns the selected session id, "" when every session was deleted.
func (s *Service) Current(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Current()
}

// SelectSession makes a session current and returns it with its restored theme.
func (s *Service) SelectSession(_ context.Context, sessionID string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(journal.SelectSession{ID: sessionID}); err != nil {
		return SessionView{}, err
	}
	sess, _ := s.state.Session(sessionID)
	return s.view(sess), nil
}

// SetTone changes the reply tone of a session.
func (s *Service) SetTone(_ context.Context, sessionID string, t tone.Tone) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(journal.SelectTone{SessionID: sessionID, Tone: t}); err != nil {
		return SessionView{}, err
	}
	sess, _ := s.state.Session(sessionID)
	return s.view(sess), nil
}

// DeleteSession removes a session. Its mood entries follow the cascade option.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[sessionID]; busy {
		return ErrTurnInProgress
	}
	return s.apply(journal.DeleteSession{ID: sessionID, Cascade: s.opts.CascadeDelete})
}

// MoodLog returns the mood entries, filtered by session when sessionID is set.
func (s *Service) MoodLog(_ context.Context, sessionID string) []mood.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.state.Log()
	if sessionID == "" {
		return l.Entries()
	}
	return l.BySession(sessionID)
}

// Stats aggregates the mood log per session plus the weekly summary.
func (s *Service) Stats(_ context.Context) mood.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Stats(s.opts.Scoring)
}

// ProcessTurn records a user utterance with its mood, asks the chat
// collaborator for a reply and records it. Collaborator failures degrade the
// result instead of failing the turn.
func (s *Service) ProcessTurn(ctx context.Context, sessionID, text string, opts TurnOptions) (TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TurnResult{}, ErrEmptyMessage
	}

	if err := s.begin(sessionID); err != nil {
		return TurnResult{}, err
	}
	defer s.end(sessionID)

	detection := s.detect(ctx, text)
	if opts.OnMood != nil {
		opts.OnMood(detection)
	}

	userMsg := journal.RecordUserMessage{
		SessionID: sessionID,
		MessageID: s.opts.NewID(),
		Text:      text,
		Mood:      detection.Mood,
		At:        s.opts.Now(),
	}

	s.mu.Lock()
	if err := s.apply(userMsg); err != nil {
		s.mu.Unlock()
		return TurnResult{}, err
	}
	sess, _ := s.state.Session(sessionID)
	history := chat.History(s.state.Messages(sessionID))
	s.mu.Unlock()

	replyText, degraded := s.reply(ctx, sessionID, history, sess.Tone, opts.OnDelta)

	replyMsg := journal.RecordReply{
		SessionID: sessionID,
		MessageID: s.opts.NewID(),
		Text:      replyText,
		At:        s.opts.Now(),
	}

	s.mu.Lock()
	if err := s.apply(replyMsg); err != nil {
		s.mu.Unlock()
		return TurnResult{}, err
	}
	s.mu.Unlock()

	s.log.Info("turn processed", "session", sessionID, "mood", detection.Mood, "source", detection.Source, "replyDegraded", degraded)

	return TurnResult{
		User: chat.Message{
			ID:        userMsg.MessageID,
			SessionID: sessionID,
			Sender:    chat.SenderUser,
			Content:   text,
			Mood:      detection.Mood,
			CreatedAt: userMsg.At,
		},
		Reply: chat.Message{
			ID:        replyMsg.MessageID,
			SessionID: sessionID,
			Sender:    chat.SenderAssistant,
			Content:   replyText,
			CreatedAt: replyMsg.At,
		},
		Mood:          detection.Mood,
		Label:         detection.Label,
		Theme:         mood.ResolveTheme(detection.Mood),
		MoodDegraded:  detection.Degraded,
		ReplyDegraded: degraded,
	}, nil
}

func (s *Service) begin(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Session(sessionID); !ok {
		return ErrSessionNotFound
	}
	if _, busy := s.inflight[sessionID]; busy {
		return ErrTurnInProgress
	}
	s.inflight[sessionID] = struct{}{}
	return nil
}

func (s *Service) end(sessionID string) {
	s.mu.Lock()
	delete(s.inflight, sessionID)
	s.mu.Unlock()
}

func (s *Service) detect(ctx context.Context, text string) emotion.Detection {
	if s.detector == nil {
		tag := mood.Classify(text)
		return emotion.Detection{Label: string(tag), Mood: tag, Source: emotion.SourceLexicon}
	}
	return s.detector.Detect(ctx, text)
}

func (s *Service) reply(ctx context.Context, sessionID string, history []chat.HistoryItem, t tone.Tone, onDelta func(string)) (string, bool) {
	if s.replier == nil {
		return FallbackReply, true
	}
	text, err := s.replier.Reply(ctx, history, t, onDelta)
	if err != nil {
		s.log.Warn("chat collaborator failed, using fallback reply", "session", sessionID, "err", err)
		return FallbackReply, true
	}
	return text, false
}

// apply must be called with mu held.
func (s *Service) apply(e journal.Event) error {
	next, err := journal.Apply(s.state, e)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Service) view(sess chat.Session) SessionView {
	theme := sess.Theme()
	return SessionView{
		Session: sess,
		Theme:   theme,
		Accent:  theme.Accent(),
		Current: sess.ID == s.state.Current(),
	}
}
