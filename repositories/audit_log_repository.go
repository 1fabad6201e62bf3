package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/rackline/pool-league-system/models"
)

// AuditLogFilter narrows audit log queries. Nil fields are skipped.
type AuditLogFilter struct {
	UserID    *int
	Action    *string
	Entity    *string
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]*models.AuditLog, int, error)
	ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

type postgresAuditLogRepository struct {
	db *sql.DB
}

func NewPostgresAuditLogRepository(db *sql.DB) AuditLogRepository {
	return &postgresAuditLogRepository{db: db}
}

const auditLogColumns = `id, user_id, action, entity, entity_id, details, ip_address, created_at`

func (r *postgresAuditLogRepository) scanEntry(row interface{ Scan(...interface{}) error }) (*models.AuditLog, error) {
	var e models.AuditLog
	err := row.Scan(&e.ID, &e.UserID, &e.Action, &e.Entity, &e.EntityID, &e.Details, &e.IPAddress, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *postgresAuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, entity, entity_id, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Action, entry.Entity, entry.EntityID, entry.Details, entry.IPAddress,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *postgresAuditLogRepository) List(ctx context.Context, filter AuditLogFilter) ([]*models.AuditLog, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.UserID != nil {
		conditions = append(conditions, "user_id = "+arg(*filter.UserID))
	}
	if filter.Action != nil {
		conditions = append(conditions, "action ILIKE "+arg("%"+*filter.Action+"%"))
	}
	if filter.Entity != nil {
		conditions = append(conditions, "entity = "+arg(*filter.Entity))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "created_at <= "+arg(*filter.EndDate))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs` + where +
		` ORDER BY created_at DESC OFFSET ` + arg(filter.Offset) + ` LIMIT ` + arg(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]*models.AuditLog, 0)
	for rows.Next() {
		e, errScan := r.scanEntry(rows)
		if errScan != nil {
			return nil, 0, errScan
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *postgresAuditLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.AuditLog, 0)
	for rows.Next() {
		e, errScan := r.scanEntry(rows)
		if errScan != nil {
			return nil, errScan
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
