// Package assistant exposes the festival assistant over REST and WebSocket.
package assistant

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nightwavefest/backend/internal/model/chat"
	assistantservice "github.com/nightwavefest/backend/internal/service/assistant"
	chatservice "github.com/nightwavefest/backend/internal/service/chat"
	"github.com/nightwavefest/backend/pkg/utils"
)

// Handler answers assistant messages over plain HTTP.
type Handler struct {
	assistantSvc *assistantservice.Service
	chatSvc      *chatservice.Service
}

// New creates the assistant handler.
func New(assistantSvc *assistantservice.Service, chatSvc *chatservice.Service) *Handler {
	return &Handler{
		assistantSvc: assistantSvc,
		chatSvc:      chatSvc,
	}
}

// RegisterRoutes mounts the assistant routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/assistant/message", h.handleMessage)
}

type messageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

type messageResponse struct {
	Reply  string                  `json:"reply"`
	Source assistantservice.Source `json:"source"`
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := h.assistantSvc.Respond(r.Context(), message)

	// Persistence is best-effort; the user already has the reply.
	if payload.SessionID != "" {
		h.persistTurn(r, payload.SessionID, message, reply)
	}

	utils.RespondJSON(w, http.StatusOK, messageResponse{
		Reply:  reply.Text,
		Source: reply.Source,
	})
}

func (h *Handler) persistTurn(r *http.Request, sessionID, message string, reply assistantservice.Reply) {
	userMsg := chat.Message{
		SessionID: sessionID,
		Sender:    "user",
		Content:   message,
	}
	if err := h.chatSvc.SaveMessage(r.Context(), userMsg); err != nil {
		log.Printf("[assistant] failed to save user message: %v", err)
		return
	}

	assistantMsg := chat.Message{
		SessionID: sessionID,
		Sender:    "assistant",
		Content:   reply.Text,
		Source:    string(reply.Source),
	}
	if err := h.chatSvc.SaveMessage(r.Context(), assistantMsg); err != nil {
		log.Printf("[assistant] failed to save assistant message: %v", err)
	}
}
