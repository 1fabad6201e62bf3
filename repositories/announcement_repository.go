package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rackline/pool-league-system/models"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id int) (*models.Announcement, error)
	// List returns announcements urgent-first, newest within each
	// group, plus the total row count for pagination.
	List(ctx context.Context, activeOnly bool, offset, limit int) ([]*models.Announcement, int, error)
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id int) error
}

type postgresAnnouncementRepository struct {
	db *sql.DB
}

func NewPostgresAnnouncementRepository(db *sql.DB) AnnouncementRepository {
	return &postgresAnnouncementRepository{db: db}
}

const announcementColumns = `id, title, content, is_urgent, is_active, creator_id, created_at, updated_at`

func (r *postgresAnnouncementRepository) scanAnnouncement(row interface{ Scan(...interface{}) error }) (*models.Announcement, error) {
	var a models.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.IsUrgent, &a.IsActive, &a.CreatorID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresAnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	query := `
		INSERT INTO announcements (title, content, is_urgent, is_active, creator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		announcement.Title, announcement.Content, announcement.IsUrgent, announcement.IsActive, announcement.CreatorID,
	).Scan(&announcement.ID, &announcement.CreatedAt, &announcement.UpdatedAt)
}

func (r *postgresAnnouncementRepository) GetByID(ctx context.Context, id int) (*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
	return r.scanAnnouncement(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresAnnouncementRepository) List(ctx context.Context, activeOnly bool, offset, limit int) ([]*models.Announcement, int, error) {
	if limit <= 0 {
		limit = 20
	}
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM announcements WHERE $1 = FALSE OR is_active = TRUE`, activeOnly,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + announcementColumns + ` FROM announcements
		WHERE $1 = FALSE OR is_active = TRUE
		ORDER BY is_urgent DESC, created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, activeOnly, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	announcements := make([]*models.Announcement, 0)
	for rows.Next() {
		a, errScan := r.scanAnnouncement(rows)
		if errScan != nil {
			return nil, 0, errScan
		}
		announcements = append(announcements, a)
	}
	return announcements, total, rows.Err()
}

func (r *postgresAnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $1, content = $2, is_urgent = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		announcement.Title, announcement.Content, announcement.IsUrgent, announcement.IsActive, announcement.ID,
	).Scan(&announcement.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAnnouncementNotFound
	}
	return err
}

func (r *postgresAnnouncementRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAnnouncementNotFound)
}
