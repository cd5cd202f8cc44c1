package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nightwavefest/backend/internal/model/chat"
	"github.com/nightwavefest/backend/internal/model/lineup"
	chatservice "github.com/nightwavefest/backend/internal/service/chat"
	"github.com/nightwavefest/backend/pkg/utils"
)

// Handler exposes session and transcript management over HTTP.
type Handler struct {
	chatSvc *chatservice.Service
	stages  lineup.Store
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, stages lineup.Store) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		stages:  stages,
	}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/messages", h.handleSaveMessage)
	r.Get("/sessions/{sessionID}/messages", h.handleTranscript)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		StageID string `json:"stageId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.StageID == "" {
		utils.RespondError(w, http.StatusBadRequest, "stageId is required")
		return
	}

	if _, ok := h.stages.FindByID(payload.StageID); !ok {
		utils.RespondError(w, http.StatusBadRequest, "stage not found")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.StageID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleSaveMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Sender    string `json:"sender"`
		Content   string `json:"content"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := chat.Message{
		SessionID: payload.SessionID,
		Sender:    payload.Sender,
		Content:   payload.Content,
	}

	if err := h.chatSvc.SaveMessage(r.Context(), message); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chatservice.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}
