package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rackline/pool-league-system/repositories"
)

// runInTx begins a transaction on db, runs fn with it, and commits or
// rolls back depending on fn's result. Panics roll back and re-raise.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapRepoNotFound rewrites well-known repository not-found errors into
// the service-level sentinel so handlers see one taxonomy.
func mapRepoNotFound(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrSeasonNotFound):
		return ErrSeasonNotFound
	case errors.Is(err, repositories.ErrNoActiveSeason):
		return ErrNoActiveSeason
	case errors.Is(err, repositories.ErrVenueNotFound):
		return ErrVenueNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrStandingNotFound):
		return ErrStandingNotFound
	case errors.Is(err, repositories.ErrInviteNotFound):
		return ErrInviteNotFound
	case errors.Is(err, repositories.ErrAnnouncementNotFound):
		return ErrAnnouncementNotFound
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	default:
		return err
	}
}
