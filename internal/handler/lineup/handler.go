package lineup

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nightwavefest/backend/internal/model/lineup"
	"github.com/nightwavefest/backend/pkg/utils"
)

// Handler serves the published stage lineup.
type Handler struct {
	stages lineup.Store
}

// New creates the lineup handler.
func New(stages lineup.Store) *Handler {
	return &Handler{stages: stages}
}

// RegisterRoutes mounts the lineup routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/lineup", h.handleListStages)
	r.Get("/lineup/{stageID}", h.handleGetStage)
}

func (h *Handler) handleListStages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.stages.List())
}

func (h *Handler) handleGetStage(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	stage, ok := h.stages.FindByID(stageID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "stage not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, stage)
}
