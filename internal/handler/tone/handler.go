package tone

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/rantme/backend/internal/model/tone"
	"github.com/zhouzirui/rantme/backend/pkg/utils"
)

// Handler 语气列表的HTTP处理器
type Handler struct {
	tones tone.Store
}

// New 创建语气处理器
func New(tones tone.Store) *Handler {
	return &Handler{tones: tones}
}

// RegisterRoutes 注册语气相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/tones", h.handleListTones)
}

// handleListTones 列出所有语气
func (h *Handler) handleListTones(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.tones.List())
}
