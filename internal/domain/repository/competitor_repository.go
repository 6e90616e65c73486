package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"judgeback/internal/common"
	"judgeback/internal/domain/model"
)

const competitorColumns = `id, name, surname, competitor_number, grp, club, hd, tof, d, p, active`

type CompetitorRepository interface {
	Create(ctx context.Context, competitor *model.Competitor) error
	Update(ctx context.Context, competitor *model.Competitor) error
	FindByID(ctx context.Context, id string) (*model.Competitor, error)
	List(ctx context.Context) ([]model.Competitor, error)
	ListActive(ctx context.Context) ([]model.Competitor, error)
	// DeactivateAll and Activate run inside one transaction so readers never
	// observe zero or two active competitors across the transition.
	DeactivateAll(ctx context.Context, tx *sql.Tx) error
	Activate(ctx context.Context, tx *sql.Tx, id string) (*model.Competitor, error)
	// IsActiveForShare share-locks the competitor row so a concurrent
	// set_active cannot deactivate it while a score upsert is in flight.
	IsActiveForShare(ctx context.Context, tx *sql.Tx, id string) (bool, error)
}

type pgCompetitorRepository struct {
	db *sql.DB
}

func NewPgCompetitorRepository(db *sql.DB) CompetitorRepository {
	return &pgCompetitorRepository{db: db}
}

func (r *pgCompetitorRepository) Create(ctx context.Context, competitor *model.Competitor) error {
	query := `INSERT INTO competitors (id, name, surname, competitor_number, grp, club, hd, tof, d, p, active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE)`
	_, err := r.db.ExecContext(ctx, query,
		competitor.ID, competitor.Name, competitor.Surname, competitor.CompetitorNumber,
		competitor.Group, competitor.Club, competitor.HD, competitor.Tof, competitor.D, competitor.P,
	)
	if err != nil {
		return fmt.Errorf("pgCompetitorRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCompetitorRepository) Update(ctx context.Context, competitor *model.Competitor) error {
	query := `UPDATE competitors
	          SET name = $2, surname = $3, competitor_number = $4, grp = $5, club = $6,
	              hd = $7, tof = $8, d = $9, p = $10
	          WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		competitor.ID, competitor.Name, competitor.Surname, competitor.CompetitorNumber,
		competitor.Group, competitor.Club, competitor.HD, competitor.Tof, competitor.D, competitor.P,
	)
	if err != nil {
		return fmt.Errorf("pgCompetitorRepository.Update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgCompetitorRepository.Update rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCompetitorRepository) FindByID(ctx context.Context, id string) (*model.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors WHERE id = $1`
	competitor := &model.Competitor{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&competitor.ID, &competitor.Name, &competitor.Surname, &competitor.CompetitorNumber,
		&competitor.Group, &competitor.Club, &competitor.HD, &competitor.Tof, &competitor.D, &competitor.P,
		&competitor.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCompetitorRepository.FindByID: %w", err)
	}
	return competitor, nil
}

func (r *pgCompetitorRepository) List(ctx context.Context) ([]model.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors ORDER BY competitor_number`
	return r.list(ctx, query)
}

func (r *pgCompetitorRepository) ListActive(ctx context.Context) ([]model.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors WHERE active ORDER BY competitor_number`
	return r.list(ctx, query)
}

func (r *pgCompetitorRepository) list(ctx context.Context, query string) ([]model.Competitor, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgCompetitorRepository.list: %w", err)
	}
	defer rows.Close()

	var competitors []model.Competitor
	for rows.Next() {
		var competitor model.Competitor
		if err := rows.Scan(
			&competitor.ID, &competitor.Name, &competitor.Surname, &competitor.CompetitorNumber,
			&competitor.Group, &competitor.Club, &competitor.HD, &competitor.Tof, &competitor.D, &competitor.P,
			&competitor.Active,
		); err != nil {
			return nil, fmt.Errorf("pgCompetitorRepository.list scan: %w", err)
		}
		competitors = append(competitors, competitor)
	}
	return competitors, rows.Err()
}

func (r *pgCompetitorRepository) DeactivateAll(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE competitors SET active = FALSE WHERE active`); err != nil {
		return fmt.Errorf("pgCompetitorRepository.DeactivateAll: %w", err)
	}
	return nil
}

func (r *pgCompetitorRepository) Activate(ctx context.Context, tx *sql.Tx, id string) (*model.Competitor, error) {
	query := `UPDATE competitors SET active = TRUE WHERE id = $1 RETURNING ` + competitorColumns
	competitor := &model.Competitor{}
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&competitor.ID, &competitor.Name, &competitor.Surname, &competitor.CompetitorNumber,
		&competitor.Group, &competitor.Club, &competitor.HD, &competitor.Tof, &competitor.D, &competitor.P,
		&competitor.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCompetitorRepository.Activate: %w", err)
	}
	return competitor, nil
}

func (r *pgCompetitorRepository) IsActiveForShare(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var active bool
	err := tx.QueryRowContext(ctx, `SELECT active FROM competitors WHERE id = $1 FOR SHARE`, id).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, common.ErrNotFound
		}
		return false, fmt.Errorf("pgCompetitorRepository.IsActiveForShare: %w", err)
	}
	return active, nil
}
