package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"judgeback/internal/common"
	"judgeback/internal/domain/model"
)

type JudgeRepository interface {
	Create(ctx context.Context, tx *sql.Tx, judge *model.Judge) error
	FindByID(ctx context.Context, id string) (*model.Judge, error)
	FindByUserID(ctx context.Context, userID string) (*model.Judge, error)
	List(ctx context.Context) ([]model.Judge, error)
	LinkUser(ctx context.Context, tx *sql.Tx, judgeID, userID string) error
	NextJudgeNumber(ctx context.Context, tx *sql.Tx, judgeType model.JudgeType) (int64, error)
}

type pgJudgeRepository struct {
	db *sql.DB
}

func NewPgJudgeRepository(db *sql.DB) JudgeRepository {
	return &pgJudgeRepository{db: db}
}

func (r *pgJudgeRepository) Create(ctx context.Context, tx *sql.Tx, judge *model.Judge) error {
	query := `INSERT INTO judges (id, user_id, name, surname, judge_number, is_main_judge, judge_type)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.ExecContext(ctx, query,
		judge.ID, judge.UserID, judge.Name, judge.Surname, judge.JudgeNumber, judge.IsMainJudge, judge.JudgeType,
	)
	if err != nil {
		return fmt.Errorf("pgJudgeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgJudgeRepository) FindByID(ctx context.Context, id string) (*model.Judge, error) {
	return r.findBy(ctx, "id", id)
}

func (r *pgJudgeRepository) FindByUserID(ctx context.Context, userID string) (*model.Judge, error) {
	return r.findBy(ctx, "user_id", userID)
}

func (r *pgJudgeRepository) findBy(ctx context.Context, column, value string) (*model.Judge, error) {
	query := `SELECT id, user_id, name, surname, judge_number, is_main_judge, judge_type
	          FROM judges WHERE ` + column + ` = $1`
	judge := &model.Judge{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&judge.ID, &judge.UserID, &judge.Name, &judge.Surname,
		&judge.JudgeNumber, &judge.IsMainJudge, &judge.JudgeType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgJudgeRepository.findBy %s: %w", column, err)
	}
	return judge, nil
}

func (r *pgJudgeRepository) List(ctx context.Context) ([]model.Judge, error) {
	query := `SELECT id, user_id, name, surname, judge_number, is_main_judge, judge_type
	          FROM judges ORDER BY judge_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgJudgeRepository.List: %w", err)
	}
	defer rows.Close()

	var judges []model.Judge
	for rows.Next() {
		var judge model.Judge
		if err := rows.Scan(
			&judge.ID, &judge.UserID, &judge.Name, &judge.Surname,
			&judge.JudgeNumber, &judge.IsMainJudge, &judge.JudgeType,
		); err != nil {
			return nil, fmt.Errorf("pgJudgeRepository.List scan: %w", err)
		}
		judges = append(judges, judge)
	}
	return judges, rows.Err()
}

func (r *pgJudgeRepository) LinkUser(ctx context.Context, tx *sql.Tx, judgeID, userID string) error {
	query := `UPDATE judges SET user_id = $2 WHERE id = $1`
	result, err := tx.ExecContext(ctx, query, judgeID, userID)
	if err != nil {
		return fmt.Errorf("pgJudgeRepository.LinkUser: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgJudgeRepository.LinkUser rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// NextJudgeNumber draws from the per-type sequence inside the registration
// transaction, so two concurrent registrations can never receive the same
// display number.
func (r *pgJudgeRepository) NextJudgeNumber(ctx context.Context, tx *sql.Tx, judgeType model.JudgeType) (int64, error) {
	seq := "judge_number_execution_seq"
	if judgeType == model.JudgeTypeDifficulty {
		seq = "judge_number_difficulty_seq"
	}
	var n int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval($1)`, seq).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgJudgeRepository.NextJudgeNumber: %w", err)
	}
	return n, nil
}
