package repository

import (
	"context"
	"database/sql"
	"fmt"

	"judgeback/internal/domain/model"
)

type DifficultyScoreRepository interface {
	// Upsert inserts or, on the (competitor, judge) unique constraint,
	// overwrites the difficulty value. created_at is set only on the first
	// insert.
	Upsert(ctx context.Context, tx *sql.Tx, score *model.DifficultyScore) (*model.DifficultyScore, error)
	ListByJudge(ctx context.Context, judgeID string) ([]model.DifficultyScore, error)
	DeleteAll(ctx context.Context, tx *sql.Tx) (int, error)
}

type pgDifficultyScoreRepository struct {
	db *sql.DB
}

func NewPgDifficultyScoreRepository(db *sql.DB) DifficultyScoreRepository {
	return &pgDifficultyScoreRepository{db: db}
}

func (r *pgDifficultyScoreRepository) Upsert(ctx context.Context, tx *sql.Tx, score *model.DifficultyScore) (*model.DifficultyScore, error) {
	query := `INSERT INTO difficulty_scores (id, competitor_id, judge_id, difficulty)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (competitor_id, judge_id)
	          DO UPDATE SET difficulty = EXCLUDED.difficulty
	          RETURNING id, competitor_id, judge_id, difficulty, created_at`
	stored := &model.DifficultyScore{}
	err := tx.QueryRowContext(ctx, query,
		score.ID, score.CompetitorID, score.JudgeID, score.Difficulty,
	).Scan(
		&stored.ID, &stored.CompetitorID, &stored.JudgeID, &stored.Difficulty, &stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("pgDifficultyScoreRepository.Upsert: %w", err)
	}
	return stored, nil
}

func (r *pgDifficultyScoreRepository) ListByJudge(ctx context.Context, judgeID string) ([]model.DifficultyScore, error) {
	query := `SELECT id, competitor_id, judge_id, difficulty, created_at
	          FROM difficulty_scores WHERE judge_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, judgeID)
	if err != nil {
		return nil, fmt.Errorf("pgDifficultyScoreRepository.ListByJudge: %w", err)
	}
	defer rows.Close()

	var scores []model.DifficultyScore
	for rows.Next() {
		var score model.DifficultyScore
		if err := rows.Scan(
			&score.ID, &score.CompetitorID, &score.JudgeID, &score.Difficulty, &score.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgDifficultyScoreRepository.ListByJudge scan: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func (r *pgDifficultyScoreRepository) DeleteAll(ctx context.Context, tx *sql.Tx) (int, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM difficulty_scores`)
	if err != nil {
		return 0, fmt.Errorf("pgDifficultyScoreRepository.DeleteAll: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgDifficultyScoreRepository.DeleteAll rows affected: %w", err)
	}
	return int(affected), nil
}
