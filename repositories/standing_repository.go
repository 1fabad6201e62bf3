package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rackline/pool-league-system/models"
)

var ErrStandingNotFound = errors.New("standing not found")

type StandingRepository interface {
	Create(ctx context.Context, exec SQLExecutor, standing *models.Standing) error
	GetByTeam(ctx context.Context, exec SQLExecutor, teamID int) (*models.Standing, error)
	// ListBySeason returns standings ordered by the ranking sort key:
	// wins descending, losses ascending, team id ascending as the
	// deterministic tie-break.
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Standing, error)
	ListBySeasonRanked(ctx context.Context, seasonID int) ([]*models.Standing, error)
	Update(ctx context.Context, exec SQLExecutor, standing *models.Standing) error
	UpdateRank(ctx context.Context, exec SQLExecutor, standingID, rank int) error
	GetOrCreate(ctx context.Context, exec SQLExecutor, teamID, seasonID int) (*models.Standing, error)
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const standingColumns = `id, team_id, season_id, wins, losses, streak, rank, updated_at`

func (r *postgresStandingRepository) scanStanding(row interface{ Scan(...interface{}) error }) (*models.Standing, error) {
	var (
		s           models.Standing
		streakToken string
	)
	err := row.Scan(&s.ID, &s.TeamID, &s.SeasonID, &s.Wins, &s.Losses, &streakToken, &s.Rank, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	s.Streak, err = models.ParseStreak(streakToken)
	if err != nil {
		return nil, fmt.Errorf("standing %d: %w", s.ID, err)
	}
	return &s, nil
}

func (r *postgresStandingRepository) Create(ctx context.Context, exec SQLExecutor, standing *models.Standing) error {
	executor := r.getExecutor(exec)
	if standing.UpdatedAt.IsZero() {
		standing.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO standings (team_id, season_id, wins, losses, streak, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		standing.TeamID, standing.SeasonID, standing.Wins, standing.Losses,
		standing.Streak.Token(), standing.Rank, standing.UpdatedAt,
	).Scan(&standing.ID)
}

func (r *postgresStandingRepository) GetByTeam(ctx context.Context, exec SQLExecutor, teamID int) (*models.Standing, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + standingColumns + ` FROM standings WHERE team_id = $1`
	return r.scanStanding(executor.QueryRowContext(ctx, query, teamID))
}

func (r *postgresStandingRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Standing, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + standingColumns + ` FROM standings
		WHERE season_id = $1
		ORDER BY wins DESC, losses ASC, team_id ASC`
	return r.collect(executor.QueryContext(ctx, query, seasonID))
}

// ListBySeasonRanked orders by the stored rank for display.
func (r *postgresStandingRepository) ListBySeasonRanked(ctx context.Context, seasonID int) ([]*models.Standing, error) {
	query := `
		SELECT ` + standingColumns + ` FROM standings
		WHERE season_id = $1
		ORDER BY rank ASC NULLS LAST, wins DESC, losses ASC, team_id ASC`
	return r.collect(r.db.QueryContext(ctx, query, seasonID))
}

func (r *postgresStandingRepository) collect(rows *sql.Rows, err error) ([]*models.Standing, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		s, errScan := r.scanStanding(rows)
		if errScan != nil {
			return nil, errScan
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) Update(ctx context.Context, exec SQLExecutor, standing *models.Standing) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE standings SET wins = $1, losses = $2, streak = $3, rank = $4, updated_at = NOW()
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query,
		standing.Wins, standing.Losses, standing.Streak.Token(), standing.Rank, standing.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *postgresStandingRepository) UpdateRank(ctx context.Context, exec SQLExecutor, standingID, rank int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE standings SET rank = $1, updated_at = NOW() WHERE id = $2`, rank, standingID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *postgresStandingRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, teamID, seasonID int) (*models.Standing, error) {
	executor := r.getExecutor(exec)
	standing, err := r.GetByTeam(ctx, executor, teamID)
	if err != nil {
		if errors.Is(err, ErrStandingNotFound) {
			created := &models.Standing{TeamID: teamID, SeasonID: seasonID, UpdatedAt: time.Now()}
			if createErr := r.Create(ctx, executor, created); createErr != nil {
				return nil, fmt.Errorf("failed to create standing for team %d: %w", teamID, createErr)
			}
			return created, nil
		}
		return nil, fmt.Errorf("failed to get standing for team %d: %w", teamID, err)
	}
	return standing, nil
}

func (r *postgresStandingRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM standings WHERE season_id = $1`, seasonID)
	return err
}
