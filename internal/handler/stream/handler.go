package stream

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/logger"
	chatService "github.com/zhouzirui/rantme/backend/internal/service/chat"
	"github.com/zhouzirui/rantme/backend/internal/service/emotion"
	"github.com/zhouzirui/rantme/backend/pkg/utils"
)

// Handler streams a chat turn via Server-Sent Events
type Handler struct {
	chatSvc *chatService.Service
	log     *log.Logger
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		log:     logger.For("stream"),
	}
}

// RegisterRoutes registers the SSE turn endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// Event payloads.
type (
	startEvent struct {
		SessionID string `json:"sessionId"`
	}
	deltaEvent struct {
		SessionID string `json:"sessionId"`
		Content   string `json:"content"`
	}
	errorEvent struct {
		SessionID string `json:"sessionId,omitempty"`
		Error     string `json:"error"`
	}
	endEvent struct {
		SessionID string `json:"sessionId"`
		Finished  bool   `json:"finished"`
	}
)

// handleStream processes one turn and emits start, mood, delta*, message and
// end events, or an error event once the stream is open.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")

	if strings.TrimSpace(userMessage) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	if _, _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", startEvent{SessionID: sessionID})

	result, err := h.chatSvc.ProcessTurn(r.Context(), sessionID, userMessage, chatService.TurnOptions{
		OnMood: func(d emotion.Detection) {
			utils.SendSSEEvent(w, flusher, "mood", moodEvent(sessionID, d))
		},
		OnDelta: func(chunk string) {
			utils.SendSSEEvent(w, flusher, "delta", deltaEvent{SessionID: sessionID, Content: chunk})
		},
	})
	if err != nil {
		h.log.Warn("turn failed", "session", sessionID, "err", err)
		utils.SendSSEEvent(w, flusher, "error", errorEvent{SessionID: sessionID, Error: turnErrorMessage(err)})
		return
	}

	utils.SendSSEEvent(w, flusher, "message", result)
	utils.SendSSEEvent(w, flusher, "end", endEvent{SessionID: sessionID, Finished: true})
	h.log.Debug("completed stream", "session", sessionID, "mood", result.Mood)
}

type moodPayload struct {
	SessionID string            `json:"sessionId"`
	Detection emotion.Detection `json:"detection"`
	Theme     mood.Theme        `json:"theme"`
}

func moodEvent(sessionID string, d emotion.Detection) moodPayload {
	return moodPayload{SessionID: sessionID, Detection: d, Theme: mood.ResolveTheme(d.Mood)}
}

func turnErrorMessage(err error) string {
	switch {
	case errors.Is(err, chatService.ErrTurnInProgress):
		return "a reply is still being written for this session"
	case errors.Is(err, chatService.ErrSessionNotFound):
		return "session not found"
	case errors.Is(err, chatService.ErrEmptyMessage):
		return "message is empty"
	default:
		return "turn failed"
	}
}
