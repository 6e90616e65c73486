package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"judgeback/internal/api"
	"judgeback/internal/api/middleware"
	"judgeback/internal/app/service"
	"judgeback/internal/common/security"
	"judgeback/internal/domain/repository"
	"judgeback/internal/platform/config"
	"judgeback/internal/platform/database"
	"judgeback/internal/platform/throttle"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate()

	// 4. Initialize Redis (failed-login throttle)
	throttle.ConnectRedis()
	defer throttle.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	judgeRepo := repository.NewPgJudgeRepository(database.DB)
	competitorRepo := repository.NewPgCompetitorRepository(database.DB)
	ratingRepo := repository.NewPgRatingRepository(database.DB)
	difficultyRepo := repository.NewPgDifficultyScoreRepository(database.DB)

	// 6. Initialize Services
	loginThrottle := throttle.NewLoginThrottle(
		throttle.RDB,
		config.AppConfig.LoginMaxAttempts,
		config.AppConfig.LoginAttemptWindow,
	)
	authService := service.NewAuthService(database.DB, userRepo, judgeRepo, loginThrottle)
	judgeService := service.NewJudgeService(database.DB, userRepo, judgeRepo)
	competitorService := service.NewCompetitorService(database.DB, competitorRepo, ratingRepo, difficultyRepo)
	scoringService := service.NewScoringService(database.DB, competitorRepo, ratingRepo, difficultyRepo)
	resultsService := service.NewResultsService(competitorRepo, ratingRepo)

	// 7. Initialize Router & HTTP Server
	authMW := middleware.NewAuth(judgeRepo)
	router := api.NewRouter(authMW, authService, judgeService, competitorService, scoringService, resultsService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
