package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rackline/pool-league-system/models"
)

var ErrPlayerStatsNotFound = errors.New("player stats not found")

type PlayerStatsRepository interface {
	GetByPlayerAndSeason(ctx context.Context, exec SQLExecutor, playerID, seasonID int) (*models.PlayerStats, error)
	// ApplyDelta upserts the (player, season) row and adds the given
	// deltas to wins, losses and runouts atomically.
	ApplyDelta(ctx context.Context, exec SQLExecutor, playerID, seasonID, winsDelta, lossesDelta, runoutsDelta int) (*models.PlayerStats, error)
	// ListBySeason returns rows ordered by wins descending then
	// runouts descending, the player-ranking display order.
	ListBySeason(ctx context.Context, seasonID int, limit int) ([]*models.PlayerStats, error)
	CountBySeason(ctx context.Context, seasonID int) (int, error)
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error
}

type postgresPlayerStatsRepository struct {
	db *sql.DB
}

func NewPostgresPlayerStatsRepository(db *sql.DB) PlayerStatsRepository {
	return &postgresPlayerStatsRepository{db: db}
}

func (r *postgresPlayerStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerStatsColumns = `id, player_id, season_id, wins, losses, runouts, updated_at`

func (r *postgresPlayerStatsRepository) scanStats(row interface{ Scan(...interface{}) error }) (*models.PlayerStats, error) {
	var p models.PlayerStats
	err := row.Scan(&p.ID, &p.PlayerID, &p.SeasonID, &p.Wins, &p.Losses, &p.Runouts, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatsNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerStatsRepository) GetByPlayerAndSeason(ctx context.Context, exec SQLExecutor, playerID, seasonID int) (*models.PlayerStats, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE player_id = $1 AND season_id = $2`
	return r.scanStats(executor.QueryRowContext(ctx, query, playerID, seasonID))
}

func (r *postgresPlayerStatsRepository) ApplyDelta(ctx context.Context, exec SQLExecutor, playerID, seasonID, winsDelta, lossesDelta, runoutsDelta int) (*models.PlayerStats, error) {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO player_stats (player_id, season_id, wins, losses, runouts, updated_at)
		VALUES ($1, $2, GREATEST($3, 0), GREATEST($4, 0), GREATEST($5, 0), NOW())
		ON CONFLICT (player_id, season_id)
		DO UPDATE SET
			wins = GREATEST(player_stats.wins + $3, 0),
			losses = GREATEST(player_stats.losses + $4, 0),
			runouts = GREATEST(player_stats.runouts + $5, 0),
			updated_at = NOW()
		RETURNING ` + playerStatsColumns
	return r.scanStats(executor.QueryRowContext(ctx, query, playerID, seasonID, winsDelta, lossesDelta, runoutsDelta))
}

func (r *postgresPlayerStatsRepository) ListBySeason(ctx context.Context, seasonID int, limit int) ([]*models.PlayerStats, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + playerStatsColumns + ` FROM player_stats
		WHERE season_id = $1
		ORDER BY wins DESC, runouts DESC, player_id ASC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, seasonID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*models.PlayerStats, 0)
	for rows.Next() {
		p, errScan := r.scanStats(rows)
		if errScan != nil {
			return nil, errScan
		}
		stats = append(stats, p)
	}
	return stats, rows.Err()
}

func (r *postgresPlayerStatsRepository) CountBySeason(ctx context.Context, seasonID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM player_stats WHERE season_id = $1`, seasonID).Scan(&count)
	return count, err
}

func (r *postgresPlayerStatsRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM player_stats WHERE season_id = $1`, seasonID)
	return err
}
