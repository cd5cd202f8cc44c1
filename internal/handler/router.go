package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	assistanthandler "github.com/nightwavefest/backend/internal/handler/assistant"
	chathandler "github.com/nightwavefest/backend/internal/handler/chat"
	lineuphandler "github.com/nightwavefest/backend/internal/handler/lineup"
	"github.com/nightwavefest/backend/internal/handler/stream"
	middlewarePkg "github.com/nightwavefest/backend/internal/middleware"
	lineupModel "github.com/nightwavefest/backend/internal/model/lineup"
	aiService "github.com/nightwavefest/backend/internal/service/ai"
	assistantService "github.com/nightwavefest/backend/internal/service/assistant"
	chatService "github.com/nightwavefest/backend/internal/service/chat"
	"github.com/nightwavefest/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. aiSvc is nil when no
// credential is configured; the assistant then runs in demo mode throughout.
func NewRouter(stages lineupModel.Store, chatSvc *chatService.Service, assistantSvc *assistantService.Service, aiSvc *aiService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	lineupHandler := lineuphandler.New(stages)
	chatHandler := chathandler.New(chatSvc, stages)
	assistantHandler := assistanthandler.New(assistantSvc, chatSvc)
	wsHandler := assistanthandler.NewWebSocketHandler(assistantSvc, chatSvc, stages)
	var streamModel stream.StreamModel
	if aiSvc != nil {
		streamModel = aiSvc
	}
	streamHandler := stream.New(assistantSvc, streamModel, chatSvc)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		session := "demo"
		if aiSvc != nil {
			if aiSvc.Ready(r.Context()) {
				session = "ready"
			} else {
				session = "unavailable"
			}
		}
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"live":    assistantSvc.LiveEnabled(),
			"session": session,
		})
	})

	r.Route("/api", func(api chi.Router) {
		lineupHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		assistantHandler.RegisterRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)

		api.Get("/assistant/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
