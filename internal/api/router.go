package api

import (
	"net/http"
	"time"

	"judgeback/internal/api/handler"
	"judgeback/internal/api/middleware"
	"judgeback/internal/app/service"
	"judgeback/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authMW *middleware.Auth,
	authService *service.AuthService,
	judgeService *service.JudgeService,
	competitorService *service.CompetitorService,
	scoringService *service.ScoringService,
	resultsService *service.ResultsService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a bearer token when present, puts claims in context. Routes
	// decide individually whether authentication is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		competitorHandler := handler.NewCompetitorHandler(competitorService, resultsService)

		// Public results for contestants and spectators
		v1.Route("/competitors", func(cr chi.Router) {
			competitorHandler.RegisterPublicRoutes(cr)

			cr.Group(func(authed chi.Router) {
				authed.Use(authMW.Authenticator)
				competitorHandler.RegisterRoutes(authed)
			})
		})

		// Judge profile and administration (authenticated)
		judgeHandler := handler.NewJudgeHandler(judgeService)
		v1.Route("/judges", func(jr chi.Router) {
			jr.Use(authMW.Authenticator)
			judgeHandler.RegisterRoutes(jr)
		})

		// Score submission (authenticated judges)
		ratingHandler := handler.NewRatingHandler(scoringService)
		v1.Route("/ratings", func(rr chi.Router) {
			rr.Use(authMW.Authenticator)
			ratingHandler.RegisterRoutes(rr)
		})

		difficultyHandler := handler.NewDifficultyHandler(scoringService)
		v1.Route("/difficulty-scores", func(dr chi.Router) {
			dr.Use(authMW.Authenticator)
			difficultyHandler.RegisterRoutes(dr)
		})
	})

	return r
}
