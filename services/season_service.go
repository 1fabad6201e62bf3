package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

type CreateSeasonInput struct {
	Name        string     `json:"name"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	PlayoffDate *time.Time `json:"playoff_date,omitempty"`
	IsActive    bool       `json:"is_active"`
}

type UpdateSeasonInput struct {
	Name        *string    `json:"name,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	PlayoffDate *time.Time `json:"playoff_date,omitempty"`
}

// SeasonService manages season lifecycle. At most one season is active
// at a time; activation deactivates the rest in the same transaction.
type SeasonService interface {
	Create(ctx context.Context, input CreateSeasonInput) (*models.Season, error)
	GetByID(ctx context.Context, id int) (*models.Season, error)
	GetActive(ctx context.Context) (*models.Season, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Season, error)
	Update(ctx context.Context, id int, input UpdateSeasonInput) (*models.Season, error)
	Activate(ctx context.Context, id int) (*models.Season, error)
	Deactivate(ctx context.Context, id int) (*models.Season, error)
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context, id int) (*models.SeasonStats, error)
}

type seasonService struct {
	db              *sql.DB
	seasonRepo      repositories.SeasonRepository
	teamRepo        repositories.TeamRepository
	matchRepo       repositories.MatchRepository
	matchResultRepo repositories.MatchResultRepository
	standingRepo    repositories.StandingRepository
	playerStatsRepo repositories.PlayerStatsRepository
	userRepo        repositories.UserRepository
	logger          *slog.Logger
}

func NewSeasonService(
	db *sql.DB,
	seasonRepo repositories.SeasonRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	matchResultRepo repositories.MatchResultRepository,
	standingRepo repositories.StandingRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) SeasonService {
	return &seasonService{
		db:              db,
		seasonRepo:      seasonRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		matchResultRepo: matchResultRepo,
		standingRepo:    standingRepo,
		playerStatsRepo: playerStatsRepo,
		userRepo:        userRepo,
		logger:          logger,
	}
}

func (s *seasonService) Create(ctx context.Context, input CreateSeasonInput) (*models.Season, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrSeasonNameRequired
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrSeasonInvalidDates
	}

	season := &models.Season{
		Name:        input.Name,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		PlayoffDate: input.PlayoffDate,
	}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		return nil, err
	}

	if input.IsActive {
		return s.Activate(ctx, season.ID)
	}
	return season, nil
}

func (s *seasonService) GetByID(ctx context.Context, id int) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if teams, teamsErr := s.teamRepo.ListBySeason(ctx, id); teamsErr == nil {
		season.Teams = teams
	}
	return season, nil
}

func (s *seasonService) GetActive(ctx context.Context) (*models.Season, error) {
	season, err := s.seasonRepo.GetActive(ctx)
	return season, mapRepoNotFound(err)
}

func (s *seasonService) List(ctx context.Context, activeOnly bool) ([]*models.Season, error) {
	return s.seasonRepo.List(ctx, activeOnly)
}

func (s *seasonService) Update(ctx context.Context, id int, input UpdateSeasonInput) (*models.Season, error) {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrSeasonNameRequired
		}
		season.Name = name
	}
	if input.StartDate != nil {
		season.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		season.EndDate = *input.EndDate
	}
	if input.PlayoffDate != nil {
		season.PlayoffDate = input.PlayoffDate
	}
	if !season.EndDate.After(season.StartDate) {
		return nil, ErrSeasonInvalidDates
	}

	if err := s.seasonRepo.Update(ctx, season); err != nil {
		return nil, mapRepoNotFound(err)
	}
	return season, nil
}

// Activate makes id the only active season.
func (s *seasonService) Activate(ctx context.Context, id int) (*models.Season, error) {
	if _, err := s.seasonRepo.GetByID(ctx, id); err != nil {
		return nil, mapRepoNotFound(err)
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if txErr := s.seasonRepo.DeactivateAll(ctx, tx); txErr != nil {
			return fmt.Errorf("failed to deactivate seasons: %w", txErr)
		}
		return s.seasonRepo.SetActive(ctx, tx, id, true)
	})
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	s.logger.Info("season activated", slog.Int("season_id", id))
	return s.seasonRepo.GetByID(ctx, id)
}

func (s *seasonService) Deactivate(ctx context.Context, id int) (*models.Season, error) {
	if err := s.seasonRepo.SetActive(ctx, nil, id, false); err != nil {
		return nil, mapRepoNotFound(err)
	}
	return s.seasonRepo.GetByID(ctx, id)
}

// Delete removes the season and everything hanging off it, child rows
// first. The active season cannot be deleted.
func (s *seasonService) Delete(ctx context.Context, id int) error {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepoNotFound(err)
	}
	if season.IsActive {
		return ErrDeleteActiveSeason
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if txErr := s.matchResultRepo.DeleteBySeason(ctx, tx, id); txErr != nil {
			return fmt.Errorf("failed to delete match results: %w", txErr)
		}
		if _, txErr := s.matchRepo.DeleteBySeason(ctx, tx, id); txErr != nil {
			return fmt.Errorf("failed to delete matches: %w", txErr)
		}
		if txErr := s.standingRepo.DeleteBySeason(ctx, tx, id); txErr != nil {
			return fmt.Errorf("failed to delete standings: %w", txErr)
		}
		if txErr := s.playerStatsRepo.DeleteBySeason(ctx, tx, id); txErr != nil {
			return fmt.Errorf("failed to delete player stats: %w", txErr)
		}
		if txErr := s.userRepo.ClearTeamForSeason(ctx, tx, id); txErr != nil {
			return fmt.Errorf("failed to clear team assignments: %w", txErr)
		}
		if txErr := s.teamRepo.DeleteBySeason(ctx, tx, id); txErr != nil {
			return fmt.Errorf("failed to delete teams: %w", txErr)
		}
		return s.seasonRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return mapRepoNotFound(err)
	}

	s.logger.Info("season deleted", slog.Int("season_id", id), slog.String("name", season.Name))
	return nil
}

// Stats aggregates the season progress view shown on the dashboard.
func (s *seasonService) Stats(ctx context.Context, id int) (*models.SeasonStats, error) {
	season, err := s.seasonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	stats := &models.SeasonStats{}
	if stats.TotalTeams, err = s.teamRepo.CountBySeason(ctx, id); err != nil {
		return nil, err
	}
	if stats.TotalMatches, err = s.matchRepo.CountBySeason(ctx, id, nil, false); err != nil {
		return nil, err
	}
	completed := models.MatchStatusCompleted
	if stats.CompletedMatches, err = s.matchRepo.CountBySeason(ctx, id, &completed, false); err != nil {
		return nil, err
	}
	if stats.TotalPlayers, err = s.userRepo.CountBySeason(ctx, id); err != nil {
		return nil, err
	}

	stats.RemainingMatches = stats.TotalMatches - stats.CompletedMatches
	if stats.TotalMatches > 0 {
		stats.CompletionRate = float64(stats.CompletedMatches) / float64(stats.TotalMatches)
	}
	stats.TotalWeeks = int(season.EndDate.Sub(season.StartDate).Hours() / (24 * 7))
	if elapsed := time.Since(season.StartDate); elapsed > 0 {
		stats.CurrentWeek = int(elapsed.Hours()/(24*7)) + 1
		if stats.TotalWeeks > 0 && stats.CurrentWeek > stats.TotalWeeks {
			stats.CurrentWeek = stats.TotalWeeks
		}
	}
	return stats, nil
}
