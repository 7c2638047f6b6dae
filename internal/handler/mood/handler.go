package mood

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	chatService "github.com/zhouzirui/rantme/backend/internal/service/chat"
	"github.com/zhouzirui/rantme/backend/internal/service/emotion"
	"github.com/zhouzirui/rantme/backend/pkg/utils"
)

// Classifier resolves the emotion of a text, reporting collaborator failures.
type Classifier interface {
	Classify(ctx context.Context, text string) (emotion.Detection, error)
}

// Handler 情绪记录、统计与主题的HTTP处理器
type Handler struct {
	chatSvc    *chatService.Service
	classifier Classifier
}

// New 创建情绪处理器。classifier 为空时 /emotion 返回 503。
func New(chatSvc *chatService.Service, classifier Classifier) *Handler {
	return &Handler{chatSvc: chatSvc, classifier: classifier}
}

// RegisterRoutes 注册情绪相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/moods", h.handleMoodLog)
	r.Get("/stats", h.handleStats)
	r.Get("/themes", h.handleThemes)
	r.Get("/themes/{mood}", h.handleTheme)
	r.Post("/emotion", h.handleEmotion)
}

type statsResponse struct {
	mood.Stats
	Summary string `json:"summary"`
}

type emotionResponse struct {
	Label  string   `json:"label"`
	Mood   mood.Tag `json:"mood"`
	Source string   `json:"source"`
}

// handleMoodLog 返回情绪记录，可按 sessionId 过滤
func (h *Handler) handleMoodLog(w http.ResponseWriter, r *http.Request) {
	entries := h.chatSvc.MoodLog(r.Context(), r.URL.Query().Get("sessionId"))
	if entries == nil {
		entries = []mood.Entry{}
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

// handleStats 返回按会话聚合的情绪统计与周汇总
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.chatSvc.Stats(r.Context())
	utils.RespondJSON(w, http.StatusOK, statsResponse{Stats: stats, Summary: stats.Weekly.Display()})
}

func (h *Handler) handleThemes(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, mood.Themes())
}

// handleTheme 未知情绪回落到 neutral 主题
func (h *Handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	tag, _ := mood.ParseTag(chi.URLParam(r, "mood"))
	utils.RespondJSON(w, http.StatusOK, mood.ResolveTheme(tag))
}

// handleEmotion 识别文本情绪
func (h *Handler) handleEmotion(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text *string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil || payload.Text == nil || strings.TrimSpace(*payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Invalid text")
		return
	}

	if h.classifier == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "emotion service unavailable")
		return
	}

	detection, err := h.classifier.Classify(r.Context(), *payload.Text)
	if err != nil {
		utils.RespondErrorDetails(w, http.StatusInternalServerError, "Inference error", map[string]string{"upstream": err.Error()})
		return
	}
	utils.RespondJSON(w, http.StatusOK, emotionResponse{Label: detection.Label, Mood: detection.Mood, Source: detection.Source})
}
