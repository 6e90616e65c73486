package service

import (
	"context"
	"database/sql"
	"fmt"

	"judgeback/internal/common"
	"judgeback/internal/common/security"
	"judgeback/internal/common/validate"
	"judgeback/internal/domain/model"
	"judgeback/internal/domain/repository"

	"github.com/google/uuid"
)

type JudgeService struct {
	db        *sql.DB
	userRepo  repository.UserRepository
	judgeRepo repository.JudgeRepository
}

func NewJudgeService(db *sql.DB, userRepo repository.UserRepository, judgeRepo repository.JudgeRepository) *JudgeService {
	return &JudgeService{db: db, userRepo: userRepo, judgeRepo: judgeRepo}
}

type CreateJudgeRequest struct {
	Name        string `json:"name" validate:"required"`
	Surname     string `json:"surname" validate:"required"`
	JudgeType   string `json:"judge_type" validate:"omitempty,oneof=execution difficulty"`
	IsMainJudge bool   `json:"is_main_judge"`
}

// ProvisionedLogin carries the one-time credentials for a judge created
// without a principal. The raw password is shown once and never stored.
type ProvisionedLogin struct {
	JudgeID  string `json:"judge_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateJudge registers a judge without a login; credentials come later via
// ProvisionLogin.
func (s *JudgeService) CreateJudge(ctx context.Context, req CreateJudgeRequest) (*model.Judge, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	judgeType := model.JudgeType(req.JudgeType)
	if judgeType == "" {
		judgeType = model.JudgeTypeExecution
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := s.judgeRepo.NextJudgeNumber(ctx, tx, judgeType)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate judge number: %w", err)
	}
	prefix := "E"
	if judgeType == model.JudgeTypeDifficulty {
		prefix = "D"
	}

	judge := &model.Judge{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Surname:     req.Surname,
		JudgeNumber: fmt.Sprintf("%s%d", prefix, n),
		IsMainJudge: req.IsMainJudge,
		JudgeType:   judgeType,
	}
	if err := s.judgeRepo.Create(ctx, tx, judge); err != nil {
		return nil, fmt.Errorf("failed to create judge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit judge creation: %w", err)
	}
	return judge, nil
}

// ProvisionLogin creates a principal for an administratively created judge
// and links it, in one transaction. Fails if the judge already has a login.
func (s *JudgeService) ProvisionLogin(ctx context.Context, judgeID string) (*ProvisionedLogin, error) {
	judge, err := s.judgeRepo.FindByID(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	if judge.UserID != nil {
		return nil, fmt.Errorf("judge already has a login: %w", common.ErrInvalidOperation)
	}

	rawPassword, err := security.RandomPassword(10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hashedPassword, err := security.HashPassword(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       "judge_" + judge.JudgeNumber,
		HashedPassword: hashedPassword,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.judgeRepo.LinkUser(ctx, tx, judge.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to link user to judge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit login provisioning: %w", err)
	}

	return &ProvisionedLogin{JudgeID: judge.ID, Username: user.Username, Password: rawPassword}, nil
}

func (s *JudgeService) ListJudges(ctx context.Context) ([]model.Judge, error) {
	return s.judgeRepo.List(ctx)
}
