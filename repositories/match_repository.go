package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/rackline/pool-league-system/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team or season reference invalid")
)

// MatchFilter narrows List queries. Nil fields are not applied.
type MatchFilter struct {
	SeasonID *int
	TeamID   *int
	Status   *models.MatchStatus
	Week     *int
	Upcoming bool
	Limit    int
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter MatchFilter) ([]*models.Match, error)
	ListHeadToHead(ctx context.Context, team1ID, team2ID int, seasonID *int) ([]*models.Match, error)
	ListCompletedBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	UpdateScore(ctx context.Context, exec SQLExecutor, id, homeScore, awayScore int) (*models.Match, error)
	Delete(ctx context.Context, id int) error
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) (int64, error)
	CountBySeason(ctx context.Context, seasonID int, status *models.MatchStatus, upcomingOnly bool) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, season_id, home_team_id, away_team_id, venue_id, date, time, week, status, home_score, away_score, created_at`

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.SeasonID, &m.HomeTeamID, &m.AwayTeamID, &m.VenueID,
		&m.Date, &m.Time, &m.Week, &m.Status, &m.HomeScore, &m.AwayScore, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (season_id, home_team_id, away_team_id, venue_id, date, time, week, status, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		match.SeasonID, match.HomeTeamID, match.AwayTeamID, match.VenueID,
		match.Date, match.Time, match.Week, match.Status, match.HomeScore, match.AwayScore,
	).Scan(&match.ID, &match.CreatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) List(ctx context.Context, filter MatchFilter) ([]*models.Match, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.SeasonID != nil {
		conditions = append(conditions, "season_id = "+arg(*filter.SeasonID))
	}
	if filter.TeamID != nil {
		p := arg(*filter.TeamID)
		conditions = append(conditions, "(home_team_id = "+p+" OR away_team_id = "+p+")")
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(*filter.Status))
	}
	if filter.Week != nil {
		conditions = append(conditions, "week = "+arg(*filter.Week))
	}
	if filter.Upcoming {
		conditions = append(conditions, "date >= "+arg(time.Now()))
		conditions = append(conditions, "status IN ('SCHEDULED', 'IN_PROGRESS')")
	}

	query := `SELECT ` + matchColumns + ` FROM matches`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date ASC, time ASC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT " + arg(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectMatches(rows)
}

func (r *postgresMatchRepository) ListHeadToHead(ctx context.Context, team1ID, team2ID int, seasonID *int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE status = 'COMPLETED'
		  AND ((home_team_id = $1 AND away_team_id = $2) OR (home_team_id = $2 AND away_team_id = $1))
		  AND ($3::int IS NULL OR season_id = $3)
		ORDER BY date DESC`
	rows, err := r.db.QueryContext(ctx, query, team1ID, team2ID, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectMatches(rows)
}

// ListCompletedBySeason returns completed matches in chronological
// order, the ordering replay-based recalculation depends on.
func (r *postgresMatchRepository) ListCompletedBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE season_id = $1 AND status = 'COMPLETED'
		ORDER BY date ASC, id ASC`
	rows, err := executor.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectMatches(rows)
}

func (r *postgresMatchRepository) collectMatches(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET date = $1, time = $2, venue_id = $3, status = $4, week = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		match.Date, match.Time, match.VenueID, match.Status, match.Week, match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdateScore records the final score and moves the match to
// COMPLETED, returning the updated row.
func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, id, homeScore, awayScore int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET home_score = $1, away_score = $2, status = 'COMPLETED'
		WHERE id = $3
		RETURNING ` + matchColumns
	return r.scanMatch(executor.QueryRowContext(ctx, query, homeScore, awayScore, id))
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) (int64, error) {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE season_id = $1`, seasonID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresMatchRepository) CountBySeason(ctx context.Context, seasonID int, status *models.MatchStatus, upcomingOnly bool) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM matches
		WHERE season_id = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3 = FALSE OR date >= NOW())`
	err := r.db.QueryRowContext(ctx, query, seasonID, status, upcomingOnly).Scan(&count)
	return count, err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrMatchTeamInvalid
	}
	return err
}
