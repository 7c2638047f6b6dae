package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/journal"
	"github.com/zhouzirui/rantme/backend/internal/model/chat"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
	chatservice "github.com/zhouzirui/rantme/backend/internal/service/chat"
)

type streamingReplier struct {
	chunks []string
	err    error
}

func (s streamingReplier) Reply(ctx context.Context, history []chat.HistoryItem, t tone.Tone, onDelta func(string)) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for _, c := range s.chunks {
		if onDelta != nil {
			onDelta(c)
		}
	}
	return strings.Join(s.chunks, ""), nil
}

type sseEvent struct {
	name string
	data string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if current.name != "" {
				events = append(events, current)
			}
			current = sseEvent{}
		}
	}
	require.NoError(t, scanner.Err())
	return events
}

func eventNames(events []sseEvent) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.name)
	}
	return names
}

func setupStreamRouter(replier chatservice.Replier) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(nil, replier, chatservice.Options{})
	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func TestStreamTurn(t *testing.T) {
	r, svc := setupStreamRouter(streamingReplier{chunks: []string{"Ugh, ", "that stinks."}})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stream/"+journal.DefaultSessionID+"?message="+url.QueryEscape("I'm so angry at my boss"), nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))

	events := parseSSE(t, resp.Body.String())
	assert.Equal(t, []string{"start", "mood", "delta", "delta", "message", "end"}, eventNames(events))

	var moodEvt moodPayload
	require.NoError(t, json.Unmarshal([]byte(events[1].data), &moodEvt))
	assert.Equal(t, mood.Angry, moodEvt.Detection.Mood)
	assert.Equal(t, "#0D47A1", moodEvt.Theme.TextColor)

	var result chatservice.TurnResult
	require.NoError(t, json.Unmarshal([]byte(events[4].data), &result))
	assert.Equal(t, "Ugh, that stinks.", result.Reply.Content)

	_, messages, err := svc.GetSession(context.Background(), journal.DefaultSessionID)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}

func TestStreamFallbackReply(t *testing.T) {
	r, _ := setupStreamRouter(streamingReplier{err: errors.New("boom")})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stream/"+journal.DefaultSessionID+"?message=hello", nil))

	events := parseSSE(t, resp.Body.String())
	assert.Equal(t, []string{"start", "mood", "message", "end"}, eventNames(events))
	assert.Contains(t, events[2].data, chatservice.FallbackReply)
}

func TestStreamRejectsBadRequests(t *testing.T) {
	r, _ := setupStreamRouter(nil)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stream/"+journal.DefaultSessionID, nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/stream/missing?message=hi", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTurnErrorMessage(t *testing.T) {
	assert.Equal(t, "session not found", turnErrorMessage(chatservice.ErrSessionNotFound))
	assert.Equal(t, "turn failed", turnErrorMessage(errors.New("x")))
}
