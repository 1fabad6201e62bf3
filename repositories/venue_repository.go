package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rackline/pool-league-system/models"
)

var ErrVenueNotFound = errors.New("venue not found")

type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Venue, error)
	Update(ctx context.Context, venue *models.Venue) error
	Delete(ctx context.Context, id int) error
}

type postgresVenueRepository struct {
	db *sql.DB
}

func NewPostgresVenueRepository(db *sql.DB) VenueRepository {
	return &postgresVenueRepository{db: db}
}

const venueColumns = `id, name, address, table_count, is_active, created_at`

func (r *postgresVenueRepository) scanVenue(row interface{ Scan(...interface{}) error }) (*models.Venue, error) {
	var v models.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Address, &v.TableCount, &v.IsActive, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *postgresVenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	query := `
		INSERT INTO venues (name, address, table_count, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		venue.Name, venue.Address, venue.TableCount, venue.IsActive,
	).Scan(&venue.ID, &venue.CreatedAt)
}

func (r *postgresVenueRepository) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`
	return r.scanVenue(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresVenueRepository) List(ctx context.Context, activeOnly bool) ([]*models.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE $1 = FALSE OR is_active = TRUE ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := make([]*models.Venue, 0)
	for rows.Next() {
		v, errScan := r.scanVenue(rows)
		if errScan != nil {
			return nil, errScan
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (r *postgresVenueRepository) Update(ctx context.Context, venue *models.Venue) error {
	query := `UPDATE venues SET name = $1, address = $2, table_count = $3, is_active = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		venue.Name, venue.Address, venue.TableCount, venue.IsActive, venue.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

func (r *postgresVenueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}
