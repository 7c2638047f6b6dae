package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zhouzirui/rantme/backend/internal/handler/chat"
	moodHandler "github.com/zhouzirui/rantme/backend/internal/handler/mood"
	"github.com/zhouzirui/rantme/backend/internal/handler/stream"
	toneHandler "github.com/zhouzirui/rantme/backend/internal/handler/tone"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
	chatService "github.com/zhouzirui/rantme/backend/internal/service/chat"
	"github.com/zhouzirui/rantme/backend/internal/validation"
	"github.com/zhouzirui/rantme/backend/pkg/utils"
)

// Dependencies are the services behind the HTTP surface. Replier and
// Classifier may be nil when the corresponding collaborator is disabled.
type Dependencies struct {
	AllowedOrigins []string
	Tones          tone.Store
	Chat           *chatService.Service
	Replier        chatService.Replier
	Classifier     moodHandler.Classifier
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(deps.AllowedOrigins)))

	validator := validation.New()

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		toneHandler.New(deps.Tones).RegisterRoutes(api)
		chat.New(deps.Chat, deps.Replier, validator).RegisterRoutes(api)
		moodHandler.New(deps.Chat, deps.Classifier).RegisterRoutes(api)
		stream.New(deps.Chat).RegisterRoutes(api)
		stream.NewWebSocketHandler(deps.Chat).RegisterRoutes(api)
	})

	return r
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}
