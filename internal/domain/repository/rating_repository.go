package repository

import (
	"context"
	"database/sql"
	"fmt"

	"judgeback/internal/domain/model"
)

type RatingRepository interface {
	// Upsert inserts or, on the (competitor, judge, round) unique constraint,
	// overwrites the score fields in place. created_at is set only on the
	// first insert. Returns the stored row either way.
	Upsert(ctx context.Context, tx *sql.Tx, rating *model.Rating) (*model.Rating, error)
	ListByJudge(ctx context.Context, judgeID string) ([]model.Rating, error)
	// ListAllWithJudges returns every rating joined with judge identity,
	// ordered by judge_number then round_number, for results assembly.
	ListAllWithJudges(ctx context.Context) ([]model.RatingWithJudge, error)
	BestPerJudge(ctx context.Context, competitorID string) ([]model.JudgeBestScore, error)
	DeleteAll(ctx context.Context, tx *sql.Tx) (int, error)
}

type pgRatingRepository struct {
	db *sql.DB
}

func NewPgRatingRepository(db *sql.DB) RatingRepository {
	return &pgRatingRepository{db: db}
}

func (r *pgRatingRepository) Upsert(ctx context.Context, tx *sql.Tx, rating *model.Rating) (*model.Rating, error) {
	query := `INSERT INTO ratings (id, competitor_id, judge_id, round_number, score, landing_score, deduction)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (competitor_id, judge_id, round_number)
	          DO UPDATE SET score = EXCLUDED.score,
	                        landing_score = EXCLUDED.landing_score,
	                        deduction = EXCLUDED.deduction
	          RETURNING id, competitor_id, judge_id, round_number, score, landing_score, deduction, created_at`
	stored := &model.Rating{}
	err := tx.QueryRowContext(ctx, query,
		rating.ID, rating.CompetitorID, rating.JudgeID, rating.RoundNumber,
		rating.Score, rating.LandingScore, rating.Deduction,
	).Scan(
		&stored.ID, &stored.CompetitorID, &stored.JudgeID, &stored.RoundNumber,
		&stored.Score, &stored.LandingScore, &stored.Deduction, &stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("pgRatingRepository.Upsert: %w", err)
	}
	return stored, nil
}

func (r *pgRatingRepository) ListByJudge(ctx context.Context, judgeID string) ([]model.Rating, error) {
	query := `SELECT id, competitor_id, judge_id, round_number, score, landing_score, deduction, created_at
	          FROM ratings WHERE judge_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, judgeID)
	if err != nil {
		return nil, fmt.Errorf("pgRatingRepository.ListByJudge: %w", err)
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var rating model.Rating
		if err := rows.Scan(
			&rating.ID, &rating.CompetitorID, &rating.JudgeID, &rating.RoundNumber,
			&rating.Score, &rating.LandingScore, &rating.Deduction, &rating.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgRatingRepository.ListByJudge scan: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *pgRatingRepository) ListAllWithJudges(ctx context.Context) ([]model.RatingWithJudge, error) {
	query := `SELECT r.id, r.competitor_id, r.judge_id, r.round_number, r.score,
	                 r.landing_score, r.deduction, r.created_at,
	                 j.judge_number, j.name, j.surname
	          FROM ratings r
	          JOIN judges j ON j.id = r.judge_id
	          ORDER BY j.judge_number, r.round_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgRatingRepository.ListAllWithJudges: %w", err)
	}
	defer rows.Close()

	var ratings []model.RatingWithJudge
	for rows.Next() {
		var rating model.RatingWithJudge
		if err := rows.Scan(
			&rating.ID, &rating.CompetitorID, &rating.JudgeID, &rating.RoundNumber,
			&rating.Score, &rating.LandingScore, &rating.Deduction, &rating.CreatedAt,
			&rating.JudgeNumber, &rating.JudgeName, &rating.JudgeSurname,
		); err != nil {
			return nil, fmt.Errorf("pgRatingRepository.ListAllWithJudges scan: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *pgRatingRepository) BestPerJudge(ctx context.Context, competitorID string) ([]model.JudgeBestScore, error) {
	query := `SELECT j.judge_number, MAX(r.score)
	          FROM ratings r
	          JOIN judges j ON j.id = r.judge_id
	          WHERE r.competitor_id = $1
	          GROUP BY j.judge_number
	          ORDER BY j.judge_number`
	rows, err := r.db.QueryContext(ctx, query, competitorID)
	if err != nil {
		return nil, fmt.Errorf("pgRatingRepository.BestPerJudge: %w", err)
	}
	defer rows.Close()

	var best []model.JudgeBestScore
	for rows.Next() {
		var row model.JudgeBestScore
		if err := rows.Scan(&row.JudgeNumber, &row.BestScore); err != nil {
			return nil, fmt.Errorf("pgRatingRepository.BestPerJudge scan: %w", err)
		}
		best = append(best, row)
	}
	return best, rows.Err()
}

func (r *pgRatingRepository) DeleteAll(ctx context.Context, tx *sql.Tx) (int, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM ratings`)
	if err != nil {
		return 0, fmt.Errorf("pgRatingRepository.DeleteAll: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgRatingRepository.DeleteAll rows affected: %w", err)
	}
	return int(affected), nil
}
