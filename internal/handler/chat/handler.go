package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/rantme/backend/internal/model/chat"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
	chatService "github.com/zhouzirui/rantme/backend/internal/service/chat"
	"github.com/zhouzirui/rantme/backend/internal/validation"
	"github.com/zhouzirui/rantme/backend/pkg/utils"
)

// Handler 聊天会话的HTTP处理器
type Handler struct {
	chatSvc   *chatService.Service
	replier   chatService.Replier
	validator *validation.Validator
}

// New 创建聊天处理器。replier 为空时 /chat 返回 503。
func New(chatSvc *chatService.Service, replier chatService.Replier, validator *validation.Validator) *Handler {
	if validator == nil {
		validator = validation.New()
	}
	return &Handler{
		chatSvc:   chatSvc,
		replier:   replier,
		validator: validator,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.handleListSessions)
		r.Post("/", h.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleGetSession)
			r.Delete("/", h.handleDeleteSession)
			r.Put("/select", h.handleSelectSession)
			r.Put("/tone", h.handleSetTone)
			r.Post("/messages", h.handleSendMessage)
		})
	})
	r.Post("/chat", h.handleChat)
}

type sessionListResponse struct {
	Sessions []chatService.SessionView `json:"sessions"`
	Current  string                    `json:"current"`
}

type sessionResponse struct {
	Session  chatService.SessionView `json:"session"`
	Messages []chat.Message          `json:"messages"`
}

type toneRequest struct {
	Tone string `json:"tone" validate:"required,oneof=empathetic motivational reflective funny"`
}

type messageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type chatRequest struct {
	Messages []chat.HistoryItem `json:"messages" validate:"required,dive"`
	Tone     *string            `json:"tone" validate:"required"`
}

// handleListSessions 列出会话
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, sessionListResponse{
		Sessions: h.chatSvc.ListSessions(r.Context()),
		Current:  h.chatSvc.Current(r.Context()),
	})
}

// handleCreateSession 创建 "Day N" 会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleGetSession 返回会话与消息记录
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, messages, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, sessionResponse{Session: session, Messages: messages})
}

// handleDeleteSession 删除会话
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "deleted",
		"current": h.chatSvc.Current(r.Context()),
	})
}

// handleSelectSession 切换当前会话
func (h *Handler) handleSelectSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.SelectSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

// handleSetTone 设置会话语气
func (h *Handler) handleSetTone(w http.ResponseWriter, r *http.Request) {
	var payload toneRequest
	if !h.decode(w, r, &payload) {
		return
	}

	session, err := h.chatSvc.SetTone(r.Context(), chi.URLParam(r, "sessionID"), tone.Tone(payload.Tone))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

// handleSendMessage 处理一轮用户输入
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if !h.decode(w, r, &payload) {
		return
	}

	result, err := h.chatSvc.ProcessTurn(r.Context(), chi.URLParam(r, "sessionID"), payload.Text, chatService.TurnOptions{})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// handleChat 直接转发到聊天模型，不记录会话
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := h.validator.Validate(payload); err != nil {
		respondValidationError(w, err, "Invalid payload")
		return
	}

	if h.replier == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai service unavailable")
		return
	}

	reply, err := h.replier.Reply(r.Context(), payload.Messages, tone.Tone(*payload.Tone), nil)
	if err != nil {
		utils.RespondErrorDetails(w, http.StatusInternalServerError, "API Error", map[string]string{"upstream": err.Error()})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSON(w, r, dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validator.Validate(dst); err != nil {
		respondValidationError(w, err, "validation failed")
		return false
	}
	return true
}

func respondValidationError(w http.ResponseWriter, err error, message string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		utils.RespondErrorDetails(w, http.StatusBadRequest, message, verr.Fields)
		return
	}
	utils.RespondError(w, http.StatusBadRequest, message)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrInvalidTone), errors.Is(err, chatService.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chatService.ErrTurnInProgress):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
