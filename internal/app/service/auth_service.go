package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"judgeback/internal/common"
	"judgeback/internal/common/security"
	"judgeback/internal/common/validate"
	"judgeback/internal/domain/model"
	"judgeback/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// LoginThrottle is satisfied by throttle.LoginThrottle; a nil-free fake
// stands in for it in tests.
type LoginThrottle interface {
	Blocked(ctx context.Context, handle string) (bool, error)
	RecordFailure(ctx context.Context, handle string) error
	Clear(ctx context.Context, handle string) error
}

type AuthService struct {
	db        *sql.DB
	userRepo  repository.UserRepository
	judgeRepo repository.JudgeRepository
	throttle  LoginThrottle
}

func NewAuthService(db *sql.DB, userRepo repository.UserRepository, judgeRepo repository.JudgeRepository, throttle LoginThrottle) *AuthService {
	return &AuthService{db: db, userRepo: userRepo, judgeRepo: judgeRepo, throttle: throttle}
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	Name      string `json:"name" validate:"required"`
	Surname   string `json:"surname" validate:"required"`
	JudgeType string `json:"judge_type" validate:"omitempty,oneof=execution difficulty"`
}

type LoginRequest struct {
	LoginField string `json:"login_field" validate:"required"` // username or email
	Password   string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token    string       `json:"token"`
	Username string       `json:"username"`
	Judge    *model.Judge `json:"judge"`
}

// Register creates the principal and the judge profile in one transaction:
// a failure at any step leaves no user, no judge and no credential behind.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	judgeType := model.JudgeType(req.JudgeType)
	if judgeType == "" {
		judgeType = model.JudgeTypeExecution
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	username, err := s.uniqueUsername(ctx, tx, slug.Make(req.Name+"."+req.Surname))
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	judgeNumber, err := s.nextJudgeNumber(ctx, tx, judgeType)
	if err != nil {
		return nil, err
	}

	judge := &model.Judge{
		ID:          uuid.NewString(),
		UserID:      &user.ID,
		Name:        req.Name,
		Surname:     req.Surname,
		JudgeNumber: judgeNumber,
		JudgeType:   judgeType,
	}
	if err := s.judgeRepo.Create(ctx, tx, judge); err != nil {
		return nil, fmt.Errorf("failed to create judge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, Username: user.Username, Judge: judge}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	blocked, err := s.throttle.Blocked(ctx, req.LoginField)
	if err != nil {
		return nil, fmt.Errorf("failed to check login throttle: %w", err)
	}
	if blocked {
		return nil, fmt.Errorf("login temporarily blocked, try again later: %w", common.ErrThrottled)
	}

	// Try finding by username first, then by email
	user, err := s.userRepo.FindByUsername(ctx, req.LoginField)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			user, err = s.userRepo.FindByEmail(ctx, req.LoginField)
		}
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			if terr := s.throttle.RecordFailure(ctx, req.LoginField); terr != nil {
				return nil, fmt.Errorf("failed to record login failure: %w", terr)
			}
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		if terr := s.throttle.RecordFailure(ctx, req.LoginField); terr != nil {
			return nil, fmt.Errorf("failed to record login failure: %w", terr)
		}
		return nil, common.ErrUnauthorized
	}

	if err := s.throttle.Clear(ctx, req.LoginField); err != nil {
		return nil, fmt.Errorf("failed to clear login throttle: %w", err)
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	judge, err := s.judgeRepo.FindByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load judge profile: %w", err)
	}
	return &AuthResponse{Token: token, Username: user.Username, Judge: judge}, nil
}

// uniqueUsername appends a deterministic numeric suffix until the slugged
// base handle is free: base, base2, base3, ...
func (s *AuthService) uniqueUsername(ctx context.Context, tx *sql.Tx, base string) (string, error) {
	username := base
	for i := 1; ; i++ {
		exists, err := s.userRepo.UsernameExists(ctx, tx, username)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !exists {
			return username, nil
		}
		username = base + strconv.Itoa(i+1)
	}
}

func (s *AuthService) nextJudgeNumber(ctx context.Context, tx *sql.Tx, judgeType model.JudgeType) (string, error) {
	n, err := s.judgeRepo.NextJudgeNumber(ctx, tx, judgeType)
	if err != nil {
		return "", fmt.Errorf("failed to allocate judge number: %w", err)
	}
	prefix := "E"
	if judgeType == model.JudgeTypeDifficulty {
		prefix = "D"
	}
	return prefix + strconv.FormatInt(n, 10), nil
}
