package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/journal"
	"github.com/zhouzirui/rantme/backend/internal/model/chat"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
	chatservice "github.com/zhouzirui/rantme/backend/internal/service/chat"
	"github.com/zhouzirui/rantme/backend/pkg/utils"
)

type stubReplier struct {
	reply   string
	err     error
	tone    tone.Tone
	history []chat.HistoryItem
}

func (s *stubReplier) Reply(ctx context.Context, history []chat.HistoryItem, t tone.Tone, onDelta func(string)) (string, error) {
	s.history = history
	s.tone = t
	return s.reply, s.err
}

func setupRouter(replier chatservice.Replier) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(nil, replier, chatservice.Options{})
	handler := New(chatSvc, replier, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListSessions(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := doJSON(t, r, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body sessionListResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Sessions, 1)
	assert.Equal(t, "Day 1", body.Sessions[0].Name)
	assert.Equal(t, journal.DefaultSessionID, body.Current)
}

func TestCreateAndSelectSession(t *testing.T) {
	r, svc := setupRouter(nil)

	resp := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.Code)
	var created chatservice.SessionView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Day 2", created.Name)
	assert.True(t, created.Current)

	resp = doJSON(t, r, http.MethodPut, "/sessions/"+journal.DefaultSessionID+"/select", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, journal.DefaultSessionID, svc.Current(context.Background()))

	resp = doJSON(t, r, http.MethodPut, "/sessions/missing/select", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSetToneValidation(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := doJSON(t, r, http.MethodPut, "/sessions/"+journal.DefaultSessionID+"/tone", map[string]string{"tone": "funny"})
	require.Equal(t, http.StatusOK, resp.Code)
	var session chatservice.SessionView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))
	assert.Equal(t, tone.Funny, session.Tone)

	resp = doJSON(t, r, http.MethodPut, "/sessions/"+journal.DefaultSessionID+"/tone", map[string]string{"tone": "sarcastic"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Contains(t, body.Details["tone"], "must be one of")
}

func TestSendMessage(t *testing.T) {
	r, _ := setupRouter(&stubReplier{reply: "Yikes. What happened?"})

	resp := doJSON(t, r, http.MethodPost, "/sessions/"+journal.DefaultSessionID+"/messages", map[string]string{"text": "I am so stressed about the deadline"})
	require.Equal(t, http.StatusOK, resp.Code)

	var result chatservice.TurnResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, mood.Stressed, result.Mood)
	assert.Equal(t, "Yikes. What happened?", result.Reply.Content)
	assert.Equal(t, mood.ResolveTheme(mood.Stressed), result.Theme)

	resp = doJSON(t, r, http.MethodGet, "/sessions/"+journal.DefaultSessionID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var session sessionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))
	assert.Len(t, session.Messages, 3)
	assert.Equal(t, mood.Stressed, session.Session.Mood)
}

func TestSendMessageErrors(t *testing.T) {
	r, _ := setupRouter(nil)

	resp := doJSON(t, r, http.MethodPost, "/sessions/"+journal.DefaultSessionID+"/messages", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, r, http.MethodPost, "/sessions/"+journal.DefaultSessionID+"/messages", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, r, http.MethodPost, "/sessions/missing/messages", map[string]string{"text": "hello"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteSession(t *testing.T) {
	r, svc := setupRouter(nil)

	resp := doJSON(t, r, http.MethodDelete, "/sessions/"+journal.DefaultSessionID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, svc.ListSessions(context.Background()))

	resp = doJSON(t, r, http.MethodDelete, "/sessions/"+journal.DefaultSessionID, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestChatPassthrough(t *testing.T) {
	replier := &stubReplier{reply: "Ugh, that stinks."}
	r, _ := setupRouter(replier)

	resp := doJSON(t, r, http.MethodPost, "/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "bad day"}},
		"tone":     "reflective",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"reply":"Ugh, that stinks."}`, resp.Body.String())
	assert.Equal(t, tone.Reflective, replier.tone)
	assert.Equal(t, []chat.HistoryItem{{Role: "user", Content: "bad day"}}, replier.history)
}

func TestChatPassthroughInvalidPayload(t *testing.T) {
	r, _ := setupRouter(&stubReplier{reply: "ok"})

	for _, body := range []map[string]any{
		{"messages": []map[string]string{{"role": "user", "content": "hi"}}},
		{"tone": "funny"},
		{"messages": []map[string]string{{"role": "system", "content": "hi"}}, "tone": "funny"},
	} {
		resp := doJSON(t, r, http.MethodPost, "/chat", body)
		assert.Equal(t, http.StatusBadRequest, resp.Code, body)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"messages": "nope", "tone": "funny"}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestChatPassthroughUpstreamFailure(t *testing.T) {
	r, _ := setupRouter(&stubReplier{err: errors.New("quota exceeded")})

	resp := doJSON(t, r, http.MethodPost, "/chat", map[string]any{"messages": []any{}, "tone": "funny"})
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "API Error", body.Error)
	assert.Equal(t, "quota exceeded", body.Details["upstream"])
}
