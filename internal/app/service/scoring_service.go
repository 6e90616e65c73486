package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"judgeback/internal/common"
	"judgeback/internal/common/validate"
	"judgeback/internal/domain/model"
	"judgeback/internal/domain/repository"

	"github.com/google/uuid"
)

type ScoringService struct {
	db             *sql.DB
	competitorRepo repository.CompetitorRepository
	ratingRepo     repository.RatingRepository
	difficultyRepo repository.DifficultyScoreRepository
}

func NewScoringService(
	db *sql.DB,
	competitorRepo repository.CompetitorRepository,
	ratingRepo repository.RatingRepository,
	difficultyRepo repository.DifficultyScoreRepository,
) *ScoringService {
	return &ScoringService{
		db:             db,
		competitorRepo: competitorRepo,
		ratingRepo:     ratingRepo,
		difficultyRepo: difficultyRepo,
	}
}

type SubmitRatingRequest struct {
	CompetitorID string  `json:"competitor_id" validate:"required,uuid"`
	RoundNumber  int     `json:"round_number" validate:"required,gt=0"`
	Score        float64 `json:"score" validate:"gte=0"`
	LandingScore float64 `json:"landing_score" validate:"gte=0"`
	Deduction    float64 `json:"deduction" validate:"gte=0"`
}

type SubmitDifficultyRequest struct {
	CompetitorID string  `json:"competitor_id" validate:"required,uuid"`
	Difficulty   float64 `json:"difficulty" validate:"gte=0,lte=50"`
}

// SubmitRating records or corrects an execution judge's score for one round
// of the active competitor. The active check and the upsert share a
// transaction; the competitor row is share-locked so a concurrent activation
// switch cannot slip between them.
func (s *ScoringService) SubmitRating(ctx context.Context, judge *model.Judge, req SubmitRatingRequest) (*model.Rating, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	active, err := s.competitorRepo.IsActiveForShare(ctx, tx, req.CompetitorID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, fmt.Errorf("only the active competitor may be scored: %w", common.ErrInvalidOperation)
	}

	rating := &model.Rating{
		ID:           uuid.NewString(),
		CompetitorID: req.CompetitorID,
		JudgeID:      judge.ID,
		RoundNumber:  req.RoundNumber,
		Score:        req.Score,
		LandingScore: req.LandingScore,
		Deduction:    req.Deduction,
	}
	stored, err := s.ratingRepo.Upsert(ctx, tx, rating)
	if err != nil {
		return nil, fmt.Errorf("failed to store rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rating: %w", err)
	}
	return stored, nil
}

// SubmitDifficulty records or corrects a difficulty judge's single score for
// the active competitor.
func (s *ScoringService) SubmitDifficulty(ctx context.Context, judge *model.Judge, req SubmitDifficultyRequest) (*model.DifficultyScore, error) {
	if judge.JudgeType != model.JudgeTypeDifficulty {
		return nil, fmt.Errorf("only difficulty judges can submit difficulty scores: %w", common.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	active, err := s.competitorRepo.IsActiveForShare(ctx, tx, req.CompetitorID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, fmt.Errorf("only the active competitor may be scored: %w", common.ErrInvalidOperation)
	}

	score := &model.DifficultyScore{
		ID:           uuid.NewString(),
		CompetitorID: req.CompetitorID,
		JudgeID:      judge.ID,
		Difficulty:   roundTo(req.Difficulty, 3), // fixed-point, three decimal places
	}
	stored, err := s.difficultyRepo.Upsert(ctx, tx, score)
	if err != nil {
		return nil, fmt.Errorf("failed to store difficulty score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit difficulty score: %w", err)
	}
	return stored, nil
}

func (s *ScoringService) MyRatings(ctx context.Context, judge *model.Judge) ([]model.Rating, error) {
	return s.ratingRepo.ListByJudge(ctx, judge.ID)
}

func (s *ScoringService) MyDifficultyScores(ctx context.Context, judge *model.Judge) ([]model.DifficultyScore, error) {
	return s.difficultyRepo.ListByJudge(ctx, judge.ID)
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
