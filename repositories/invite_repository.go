package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/rackline/pool-league-system/models"
)

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteTokenConflict = errors.New("invite token already exists")
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByID(ctx context.Context, id int) (*models.Invite, error)
	GetByToken(ctx context.Context, token string) (*models.Invite, error)
	GetPendingByPhone(ctx context.Context, phone string) (*models.Invite, error)
	List(ctx context.Context, status *models.InviteStatus, offset, limit int) ([]*models.Invite, int, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.InviteStatus) error
	UpdateToken(ctx context.Context, id int, token string, expiresAt time.Time) error
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

func (r *postgresInviteRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const inviteColumns = `id, phone, first_name, last_name, team_id, role, token, status, expires_at, created_by_id, created_at`

func (r *postgresInviteRepository) scanInvite(row interface{ Scan(...interface{}) error }) (*models.Invite, error) {
	var i models.Invite
	err := row.Scan(
		&i.ID, &i.Phone, &i.FirstName, &i.LastName, &i.TeamID, &i.Role,
		&i.Token, &i.Status, &i.ExpiresAt, &i.CreatedByID, &i.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *postgresInviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (phone, first_name, last_name, team_id, role, token, status, expires_at, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		invite.Phone, invite.FirstName, invite.LastName, invite.TeamID, invite.Role,
		invite.Token, invite.Status, invite.ExpiresAt, invite.CreatedByID,
	).Scan(&invite.ID, &invite.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrInviteTokenConflict
	}
	return err
}

func (r *postgresInviteRepository) GetByID(ctx context.Context, id int) (*models.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE id = $1`
	return r.scanInvite(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresInviteRepository) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE token = $1`
	return r.scanInvite(r.db.QueryRowContext(ctx, query, token))
}

func (r *postgresInviteRepository) GetPendingByPhone(ctx context.Context, phone string) (*models.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE phone = $1 AND status = 'PENDING' ORDER BY created_at DESC LIMIT 1`
	return r.scanInvite(r.db.QueryRowContext(ctx, query, phone))
}

func (r *postgresInviteRepository) List(ctx context.Context, status *models.InviteStatus, offset, limit int) ([]*models.Invite, int, error) {
	if limit <= 0 {
		limit = 20
	}
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invites WHERE $1::text IS NULL OR status = $1`, status,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + inviteColumns + ` FROM invites
		WHERE $1::text IS NULL OR status = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, status, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invites := make([]*models.Invite, 0)
	for rows.Next() {
		i, errScan := r.scanInvite(rows)
		if errScan != nil {
			return nil, 0, errScan
		}
		invites = append(invites, i)
	}
	return invites, total, rows.Err()
}

func (r *postgresInviteRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.InviteStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE invites SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}

func (r *postgresInviteRepository) UpdateToken(ctx context.Context, id int, token string, expiresAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invites SET token = $1, expires_at = $2, status = 'PENDING' WHERE id = $3`,
		token, expiresAt, id,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}
