package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rackline/pool-league-system/models"
)

var (
	ErrSeasonNotFound = errors.New("season not found")
	ErrNoActiveSeason = errors.New("no active season found")
)

type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	GetActive(ctx context.Context) (*models.Season, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Season, error)
	Update(ctx context.Context, season *models.Season) error
	DeactivateAll(ctx context.Context, exec SQLExecutor) error
	SetActive(ctx context.Context, exec SQLExecutor, id int, active bool) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

func (r *postgresSeasonRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const seasonColumns = `id, name, start_date, end_date, playoff_date, is_active, created_at`

func (r *postgresSeasonRepository) scanSeason(row interface{ Scan(...interface{}) error }) (*models.Season, error) {
	var s models.Season
	err := row.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.PlayoffDate, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSeasonRepository) Create(ctx context.Context, season *models.Season) error {
	query := `
		INSERT INTO seasons (name, start_date, end_date, playoff_date, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		season.Name, season.StartDate, season.EndDate, season.PlayoffDate, season.IsActive,
	).Scan(&season.ID, &season.CreatedAt)
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE id = $1`
	return r.scanSeason(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSeasonRepository) GetActive(ctx context.Context) (*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE is_active = TRUE LIMIT 1`
	season, err := r.scanSeason(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, ErrSeasonNotFound) {
		return nil, ErrNoActiveSeason
	}
	return season, err
}

func (r *postgresSeasonRepository) List(ctx context.Context, activeOnly bool) ([]*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE $1 = FALSE OR is_active = TRUE ORDER BY start_date DESC`
	rows, err := r.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seasons := make([]*models.Season, 0)
	for rows.Next() {
		s, errScan := r.scanSeason(rows)
		if errScan != nil {
			return nil, errScan
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

func (r *postgresSeasonRepository) Update(ctx context.Context, season *models.Season) error {
	query := `
		UPDATE seasons SET name = $1, start_date = $2, end_date = $3, playoff_date = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		season.Name, season.StartDate, season.EndDate, season.PlayoffDate, season.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) DeactivateAll(ctx context.Context, exec SQLExecutor) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `UPDATE seasons SET is_active = FALSE WHERE is_active = TRUE`)
	return err
}

func (r *postgresSeasonRepository) SetActive(ctx context.Context, exec SQLExecutor, id int, active bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE seasons SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}

func (r *postgresSeasonRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM seasons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}
