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

type JudgeHandler struct {
	judgeService *service.JudgeService
}

func NewJudgeHandler(judgeService *service.JudgeService) *JudgeHandler {
	return &JudgeHandler{judgeService: judgeService}
}

func (h *JudgeHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.Require(policy.CapViewOwnProfile)).Get("/me", h.me)
	r.With(middleware.Require(policy.CapManageJudges)).Get("/", h.list)
	r.With(middleware.Require(policy.CapManageJudges)).Post("/", h.create)
	r.With(middleware.Require(policy.CapManageJudges)).Post("/{judgeID}/provision-login", h.provisionLogin)
}

func (h *JudgeHandler) me(w http.ResponseWriter, r *http.Request) {
	judge, ok := judgeFromRequest(w, r)
	if !ok {
		return
	}
	common.RespondWithJSON(w, http.StatusOK, judge)
}

func (h *JudgeHandler) list(w http.ResponseWriter, r *http.Request) {
	judges, err := h.judgeService.ListJudges(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, judges)
}

func (h *JudgeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateJudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	judge, err := h.judgeService.CreateJudge(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, judge)
}

func (h *JudgeHandler) provisionLogin(w http.ResponseWriter, r *http.Request) {
	login, err := h.judgeService.ProvisionLogin(r.Context(), chi.URLParam(r, "judgeID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, login)
}
