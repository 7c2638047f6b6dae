package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/rantme/backend/internal/model/tone"
	chatService "github.com/zhouzirui/rantme/backend/internal/service/chat"
)

func newTestRouter(origins []string) http.Handler {
	return NewRouter(Dependencies{
		AllowedOrigins: origins,
		Tones:          tone.NewMemoryStore(tone.Seed()),
		Chat:           chatService.NewService(nil, nil, chatService.Options{}),
	})
}

func TestRouterMountsAPI(t *testing.T) {
	r := newTestRouter(nil)

	for _, path := range []string{"/api/health", "/api/tones", "/api/sessions", "/api/stats", "/api/moods", "/api/themes"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}
}

func TestRouterCORS(t *testing.T) {
	r := newTestRouter([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/tones", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterChatRejectsEmptyBody(t *testing.T) {
	r := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
