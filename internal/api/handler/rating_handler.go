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

type RatingHandler struct {
	scoringService *service.ScoringService
}

func NewRatingHandler(scoringService *service.ScoringService) *RatingHandler {
	return &RatingHandler{scoringService: scoringService}
}

func (h *RatingHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Require(policy.CapSubmitScore))
	r.Post("/", h.submit)
	r.Get("/mine", h.mine)
}

func (h *RatingHandler) submit(w http.ResponseWriter, r *http.Request) {
	judge, ok := judgeFromRequest(w, r)
	if !ok {
		return
	}

	var req service.SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	rating, err := h.scoringService.SubmitRating(r.Context(), judge, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, rating)
}

func (h *RatingHandler) mine(w http.ResponseWriter, r *http.Request) {
	judge, ok := judgeFromRequest(w, r)
	if !ok {
		return
	}

	ratings, err := h.scoringService.MyRatings(r.Context(), judge)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ratings)
}
