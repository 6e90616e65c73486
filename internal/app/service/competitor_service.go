package service

import (
	"context"
	"database/sql"
	"fmt"

	"judgeback/internal/common/validate"
	"judgeback/internal/domain/model"
	"judgeback/internal/domain/repository"

	"github.com/google/uuid"
)

type CompetitorService struct {
	db             *sql.DB
	competitorRepo repository.CompetitorRepository
	ratingRepo     repository.RatingRepository
	difficultyRepo repository.DifficultyScoreRepository
}

func NewCompetitorService(
	db *sql.DB,
	competitorRepo repository.CompetitorRepository,
	ratingRepo repository.RatingRepository,
	difficultyRepo repository.DifficultyScoreRepository,
) *CompetitorService {
	return &CompetitorService{
		db:             db,
		competitorRepo: competitorRepo,
		ratingRepo:     ratingRepo,
		difficultyRepo: difficultyRepo,
	}
}

type CompetitorRequest struct {
	Name             string `json:"name" validate:"required"`
	Surname          string `json:"surname" validate:"required"`
	CompetitorNumber string `json:"competitor_number" validate:"required"`
	Group            string `json:"group"`
	Club             string `json:"club"`
	HD               string `json:"hd"`
	Tof              string `json:"tof"`
	D                string `json:"d"`
	P                string `json:"p"`
}

func (s *CompetitorService) Create(ctx context.Context, req CompetitorRequest) (*model.Competitor, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	competitor := &model.Competitor{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Surname:          req.Surname,
		CompetitorNumber: req.CompetitorNumber,
		Group:            req.Group,
		Club:             req.Club,
		HD:               req.HD,
		Tof:              req.Tof,
		D:                req.D,
		P:                req.P,
	}
	if err := s.competitorRepo.Create(ctx, competitor); err != nil {
		return nil, fmt.Errorf("failed to create competitor: %w", err)
	}
	return competitor, nil
}

// Update replaces the competitor's details and annotations. The active flag
// is not touched here; it only moves through SetActive and Reset.
func (s *CompetitorService) Update(ctx context.Context, id string, req CompetitorRequest) (*model.Competitor, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.competitorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Surname = req.Surname
	existing.CompetitorNumber = req.CompetitorNumber
	existing.Group = req.Group
	existing.Club = req.Club
	existing.HD = req.HD
	existing.Tof = req.Tof
	existing.D = req.D
	existing.P = req.P

	if err := s.competitorRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update competitor: %w", err)
	}
	return existing, nil
}

func (s *CompetitorService) Get(ctx context.Context, id string) (*model.Competitor, error) {
	return s.competitorRepo.FindByID(ctx, id)
}

func (s *CompetitorService) List(ctx context.Context) ([]model.Competitor, error) {
	return s.competitorRepo.List(ctx)
}

// ListActive returns the zero-or-one competitors currently flagged active.
func (s *CompetitorService) ListActive(ctx context.Context) ([]model.Competitor, error) {
	return s.competitorRepo.ListActive(ctx)
}

// SetActive flips the single active flag to the named competitor. The clear
// and set run in one transaction, so no reader ever observes zero or two
// active competitors across the transition.
func (s *CompetitorService) SetActive(ctx context.Context, id string) (*model.Competitor, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.competitorRepo.DeactivateAll(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to deactivate competitors: %w", err)
	}
	competitor, err := s.competitorRepo.Activate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit activation: %w", err)
	}
	return competitor, nil
}

// Reset deletes every rating and difficulty score and deactivates every
// competitor, all in one transaction: it either fully applies or not at all.
// Competitors themselves survive a reset.
func (s *CompetitorService) Reset(ctx context.Context) (*model.ResetOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deletedRatings, err := s.ratingRepo.DeleteAll(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete ratings: %w", err)
	}
	deletedDifficulty, err := s.difficultyRepo.DeleteAll(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete difficulty scores: %w", err)
	}
	if err := s.competitorRepo.DeactivateAll(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to deactivate competitors: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reset: %w", err)
	}

	return &model.ResetOutcome{
		DeletedRatings:          deletedRatings,
		DeletedDifficultyScores: deletedDifficulty,
		DeletedTotal:            deletedRatings + deletedDifficulty,
	}, nil
}
