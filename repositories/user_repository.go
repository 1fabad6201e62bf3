package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/rackline/pool-league-system/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, teamID *int, isActive *bool) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error
	SetTeam(ctx context.Context, exec SQLExecutor, userID int, teamID *int) error
	ClearTeamForSeason(ctx context.Context, exec SQLExecutor, seasonID int) error
	Delete(ctx context.Context, id int) error
	CountBySeason(ctx context.Context, seasonID int) (int, error)
	Count(ctx context.Context, isActive *bool) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, handicap, role, team_id, is_active, created_at`

func (r *postgresUserRepository) scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.Handicap, &u.Role, &u.TeamID, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, user *models.User) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, handicap, role, team_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Phone, user.Handicap, user.Role, user.TeamID, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	return r.handleUserError(err)
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) List(ctx context.Context, teamID *int, isActive *bool) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ($1::int IS NULL OR team_id = $1) AND ($2::bool IS NULL OR is_active = $2) ORDER BY last_name, first_name`
	rows, err := r.db.QueryContext(ctx, query, teamID, isActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, errScan := r.scanUser(rows)
		if errScan != nil {
			return nil, errScan
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			email = $1, first_name = $2, last_name = $3, phone = $4,
			handicap = $5, role = $6, team_id = $7, is_active = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.Phone,
		user.Handicap, user.Role, user.TeamID, user.IsActive, user.ID,
	)
	if err != nil {
		return r.handleUserError(err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetTeam(ctx context.Context, exec SQLExecutor, userID int, teamID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE users SET team_id = $1 WHERE id = $2`, teamID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) ClearTeamForSeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE users SET team_id = NULL WHERE team_id IN (SELECT id FROM teams WHERE season_id = $1)`
	_, err := executor.ExecContext(ctx, query, seasonID)
	return err
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) CountBySeason(ctx context.Context, seasonID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE team_id IN (SELECT id FROM teams WHERE season_id = $1)`
	err := r.db.QueryRowContext(ctx, query, seasonID).Scan(&count)
	return count, err
}

func (r *postgresUserRepository) Count(ctx context.Context, isActive *bool) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE $1::bool IS NULL OR is_active = $1`, isActive).Scan(&count)
	return count, err
}

func (r *postgresUserRepository) handleUserError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrUserEmailConflict
	}
	return err
}
