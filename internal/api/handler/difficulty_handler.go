package handler

import (
	"encoding/json"
	"net/http"

	"judgeback/internal/api/middleware"
	"judgeback/internal/app/service"
	"judgeback/internal/common"
	"judgeback/internal/domain/policy"

	"github.com/go-chi/chi/v5"
)

type DifficultyHandler struct {
	scoringService *service.ScoringService
}

func NewDifficultyHandler(scoringService *service.ScoringService) *DifficultyHandler {
	return &DifficultyHandler{scoringService: scoringService}
}

func (h *DifficultyHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Require(policy.CapSubmitScore))
	r.Post("/", h.submit)
	r.Get("/mine", h.mine)
}

func (h *DifficultyHandler) submit(w http.ResponseWriter, r *http.Request) {
	judge, ok := judgeFromRequest(w, r)
	if !ok {
		return
	}

	var req service.SubmitDifficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	score, err := h.scoringService.SubmitDifficulty(r.Context(), judge, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, score)
}

func (h *DifficultyHandler) mine(w http.ResponseWriter, r *http.Request) {
	judge, ok := judgeFromRequest(w, r)
	if !ok {
		return
	}

	scores, err := h.scoringService.MyDifficultyScores(r.Context(), judge)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scores)
}
