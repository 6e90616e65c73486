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

type CompetitorHandler struct {
	competitorService *service.CompetitorService
	resultsService    *service.ResultsService
}

func NewCompetitorHandler(competitorService *service.CompetitorService, resultsService *service.ResultsService) *CompetitorHandler {
	return &CompetitorHandler{competitorService: competitorService, resultsService: resultsService}
}

// RegisterPublicRoutes mounts the routes reachable without a token. Results
// are public so contestants can follow the standings.
func (h *CompetitorHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/results", h.results)
}

func (h *CompetitorHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.Require(policy.CapViewActiveCompetitor)).Get("/active", h.active)
	r.With(middleware.Require(policy.CapViewActiveCompetitor)).Get("/{competitorID}/best-per-judge", h.bestPerJudge)

	r.With(middleware.Require(policy.CapManageCompetitors)).Get("/", h.list)
	r.With(middleware.Require(policy.CapManageCompetitors)).Post("/", h.create)
	r.With(middleware.Require(policy.CapManageCompetitors)).Get("/{competitorID}", h.get)
	r.With(middleware.Require(policy.CapManageCompetitors)).Put("/{competitorID}", h.update)
	r.With(middleware.Require(policy.CapSetActiveCompetitor)).Post("/{competitorID}/activate", h.activate)
	r.With(middleware.Require(policy.CapResetCompetition)).Post("/reset", h.reset)
}

func (h *CompetitorHandler) results(w http.ResponseWriter, r *http.Request) {
	results, err := h.resultsService.ComputeResults(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, results)
}

func (h *CompetitorHandler) active(w http.ResponseWriter, r *http.Request) {
	competitors, err := h.competitorService.ListActive(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, competitors)
}

func (h *CompetitorHandler) bestPerJudge(w http.ResponseWriter, r *http.Request) {
	best, err := h.resultsService.BestPerJudge(r.Context(), chi.URLParam(r, "competitorID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, best)
}

func (h *CompetitorHandler) list(w http.ResponseWriter, r *http.Request) {
	competitors, err := h.competitorService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, competitors)
}

func (h *CompetitorHandler) get(w http.ResponseWriter, r *http.Request) {
	competitor, err := h.competitorService.Get(r.Context(), chi.URLParam(r, "competitorID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, competitor)
}

func (h *CompetitorHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CompetitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	competitor, err := h.competitorService.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, competitor)
}

func (h *CompetitorHandler) update(w http.ResponseWriter, r *http.Request) {
	var req service.CompetitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	competitor, err := h.competitorService.Update(r.Context(), chi.URLParam(r, "competitorID"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, competitor)
}

func (h *CompetitorHandler) activate(w http.ResponseWriter, r *http.Request) {
	competitor, err := h.competitorService.SetActive(r.Context(), chi.URLParam(r, "competitorID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, competitor)
}

func (h *CompetitorHandler) reset(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.competitorService.Reset(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, outcome)
}
