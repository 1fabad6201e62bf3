package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rackline/pool-league-system/league"
	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

// clearScheduleConfirmation must be echoed back by the caller before a
// season's matches are bulk deleted.
const clearScheduleConfirmation = "DELETE_ALL_MATCHES"

// GenerateScheduleInput carries the admin's schedule generation
// request. SeasonID defaults to the active season when zero.
type GenerateScheduleInput struct {
	SeasonID      int    `json:"season_id"`
	StartDate     string `json:"start_date"`
	WeeksCount    int    `json:"weeks_count"`
	MatchTime     string `json:"match_time"`
	VenueRotation bool   `json:"venue_rotation"`
	ActorID       int    `json:"-"`
}

// GenerateScheduleResult summarizes a completed generation run.
type GenerateScheduleResult struct {
	SeasonID       int `json:"season_id"`
	TeamsScheduled int `json:"teams_scheduled"`
	MatchesCreated int `json:"matches_created"`
	WeeksGenerated int `json:"weeks_generated"`
}

// ClearScheduleResult reports how many matches a clear removed.
type ClearScheduleResult struct {
	SeasonID       int   `json:"season_id"`
	MatchesDeleted int64 `json:"matches_deleted"`
}

// ScheduleService turns a season's team list into a persisted
// round-robin fixture list, and tears schedules down again on request.
type ScheduleService interface {
	GenerateSchedule(ctx context.Context, input GenerateScheduleInput) (*GenerateScheduleResult, error)
	ClearSchedule(ctx context.Context, seasonID, actorID int, confirmation string) (*ClearScheduleResult, error)
}

type scheduleService struct {
	db           *sql.DB
	matchRepo    repositories.MatchRepository
	teamRepo     repositories.TeamRepository
	seasonRepo   repositories.SeasonRepository
	venueRepo    repositories.VenueRepository
	auditLogRepo repositories.AuditLogRepository
	hub          *league.Hub
	logger       *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	seasonRepo repositories.SeasonRepository,
	venueRepo repositories.VenueRepository,
	auditLogRepo repositories.AuditLogRepository,
	hub *league.Hub,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:           db,
		matchRepo:    matchRepo,
		teamRepo:     teamRepo,
		seasonRepo:   seasonRepo,
		venueRepo:    venueRepo,
		auditLogRepo: auditLogRepo,
		hub:          hub,
		logger:       logger,
	}
}

// GenerateSchedule runs the round-robin generator over the season's
// teams and inserts every fixture in one transaction, so a failure
// partway leaves no partial schedule behind.
func (s *scheduleService) GenerateSchedule(ctx context.Context, input GenerateScheduleInput) (*GenerateScheduleResult, error) {
	season, err := s.resolveSeason(ctx, input.SeasonID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListBySeason(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for season %d: %w", season.ID, err)
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrInsufficientTeams, len(teams))
	}

	startDate := season.StartDate
	if input.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", input.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrValidationFailed)
		}
	}

	venues, err := s.venueRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	teamIDs := make([]int, len(teams))
	for i, team := range teams {
		teamIDs[i] = team.ID
	}
	venueIDs := make([]int, len(venues))
	for i, venue := range venues {
		venueIDs[i] = venue.ID
	}

	fixtures, err := league.GenerateRoundRobin(league.FixtureParams{
		TeamIDs:      teamIDs,
		StartDate:    startDate,
		WeeksCount:   input.WeeksCount,
		MatchTime:    input.MatchTime,
		VenueIDs:     venueIDs,
		RotateVenues: input.VenueRotation,
	})
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, fixture := range fixtures {
			match := &models.Match{
				SeasonID:   season.ID,
				HomeTeamID: fixture.HomeTeamID,
				AwayTeamID: fixture.AwayTeamID,
				VenueID:    fixture.VenueID,
				Date:       fixture.Date,
				Time:       fixture.Time,
				Week:       fixture.Week,
				Status:     models.MatchStatusScheduled,
			}
			if createErr := s.matchRepo.Create(ctx, tx, match); createErr != nil {
				return fmt.Errorf("failed to create week %d match: %w", fixture.Week, createErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &GenerateScheduleResult{
		SeasonID:       season.ID,
		TeamsScheduled: len(teams),
		MatchesCreated: len(fixtures),
	}
	if len(fixtures) > 0 {
		result.WeeksGenerated = fixtures[len(fixtures)-1].Week
	}

	s.audit(ctx, input.ActorID, "SCHEDULE_GENERATED", season.ID, result)
	s.logger.Info("schedule generated",
		slog.Int("season_id", season.ID),
		slog.Int("teams", len(teams)),
		slog.Int("matches", len(fixtures)),
	)
	s.hub.BroadcastToRoom(league.SeasonRoom(season.ID), league.EventScheduleGenerated, result)

	return result, nil
}

// ClearSchedule deletes every match in the season. Refuses to run
// unless the caller echoes the confirmation phrase.
func (s *scheduleService) ClearSchedule(ctx context.Context, seasonID, actorID int, confirmation string) (*ClearScheduleResult, error) {
	if confirmation != clearScheduleConfirmation {
		return nil, ErrClearNotConfirmed
	}

	season, err := s.resolveSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	var deleted int64
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		deleted, txErr = s.matchRepo.DeleteBySeason(ctx, tx, season.ID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	result := &ClearScheduleResult{SeasonID: season.ID, MatchesDeleted: deleted}
	s.audit(ctx, actorID, "SCHEDULE_CLEARED", season.ID, result)
	s.logger.Info("schedule cleared", slog.Int("season_id", season.ID), slog.Int64("matches_deleted", deleted))
	return result, nil
}

func (s *scheduleService) resolveSeason(ctx context.Context, seasonID int) (*models.Season, error) {
	if seasonID > 0 {
		season, err := s.seasonRepo.GetByID(ctx, seasonID)
		return season, mapRepoNotFound(err)
	}
	season, err := s.seasonRepo.GetActive(ctx)
	return season, mapRepoNotFound(err)
}

// audit failures are logged, not propagated: the schedule operation
// itself already succeeded.
func (s *scheduleService) audit(ctx context.Context, actorID int, action string, seasonID int, details interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = nil
	}
	entry := &models.AuditLog{
		Action:   action,
		Entity:   "season",
		EntityID: &seasonID,
		Details:  payload,
	}
	if actorID > 0 {
		entry.UserID = &actorID
	}
	if err := s.auditLogRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", slog.String("action", action), slog.Any("error", err))
	}
}
