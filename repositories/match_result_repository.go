package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rackline/pool-league-system/models"
)

var ErrMatchResultNotFound = errors.New("match result not found")

type MatchResultRepository interface {
	// GetByKey fetches the row for (match, player, gameNumber).
	GetByKey(ctx context.Context, exec SQLExecutor, matchID, playerID, gameNumber int) (*models.MatchResult, error)
	// Upsert inserts or overwrites the row keyed by
	// (match, player, gameNumber).
	Upsert(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchResult, error)
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error
}

type postgresMatchResultRepository struct {
	db *sql.DB
}

func NewPostgresMatchResultRepository(db *sql.DB) MatchResultRepository {
	return &postgresMatchResultRepository{db: db}
}

func (r *postgresMatchResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchResultColumns = `id, match_id, player_id, game_number, won, is_runout, created_at`

func (r *postgresMatchResultRepository) scanResult(row interface{ Scan(...interface{}) error }) (*models.MatchResult, error) {
	var mr models.MatchResult
	err := row.Scan(&mr.ID, &mr.MatchID, &mr.PlayerID, &mr.GameNumber, &mr.Won, &mr.IsRunout, &mr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchResultNotFound
		}
		return nil, err
	}
	return &mr, nil
}

func (r *postgresMatchResultRepository) GetByKey(ctx context.Context, exec SQLExecutor, matchID, playerID, gameNumber int) (*models.MatchResult, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchResultColumns + ` FROM match_results WHERE match_id = $1 AND player_id = $2 AND game_number = $3`
	return r.scanResult(executor.QueryRowContext(ctx, query, matchID, playerID, gameNumber))
}

func (r *postgresMatchResultRepository) Upsert(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_results (match_id, player_id, game_number, won, is_runout)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, player_id, game_number)
		DO UPDATE SET won = EXCLUDED.won, is_runout = EXCLUDED.is_runout
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		result.MatchID, result.PlayerID, result.GameNumber, result.Won, result.IsRunout,
	).Scan(&result.ID, &result.CreatedAt)
}

func (r *postgresMatchResultRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchResult, error) {
	query := `SELECT ` + matchResultColumns + ` FROM match_results WHERE match_id = $1 ORDER BY game_number ASC`
	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.MatchResult, 0)
	for rows.Next() {
		mr, errScan := r.scanResult(rows)
		if errScan != nil {
			return nil, errScan
		}
		results = append(results, mr)
	}
	return results, rows.Err()
}

func (r *postgresMatchResultRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM match_results WHERE match_id IN (SELECT id FROM matches WHERE season_id = $1)`
	_, err := executor.ExecContext(ctx, query, seasonID)
	return err
}
