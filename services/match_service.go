package services

import (
	"context"
	"time"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

type CreateMatchInput struct {
	SeasonID   int       `json:"season_id"`
	HomeTeamID int       `json:"home_team_id"`
	AwayTeamID int       `json:"away_team_id"`
	VenueID    *int      `json:"venue_id,omitempty"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Week       int       `json:"week"`
}

type UpdateMatchInput struct {
	Date    *time.Time          `json:"date,omitempty"`
	Time    *string             `json:"time,omitempty"`
	VenueID *int                `json:"venue_id,omitempty"`
	Week    *int                `json:"week,omitempty"`
	Status  *models.MatchStatus `json:"status,omitempty"`
}

// MatchService covers match CRUD and listing. Scoring lives in
// StandingsService because scoring is what moves standings.
type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error)
	Update(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error)
	Delete(ctx context.Context, id int) error
	ListResults(ctx context.Context, matchID int) ([]*models.MatchResult, error)
}

type matchService struct {
	matchRepo       repositories.MatchRepository
	matchResultRepo repositories.MatchResultRepository
	teamRepo        repositories.TeamRepository
	venueRepo       repositories.VenueRepository
	seasonRepo      repositories.SeasonRepository
	userRepo        repositories.UserRepository
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	matchResultRepo repositories.MatchResultRepository,
	teamRepo repositories.TeamRepository,
	venueRepo repositories.VenueRepository,
	seasonRepo repositories.SeasonRepository,
	userRepo repositories.UserRepository,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		matchResultRepo: matchResultRepo,
		teamRepo:        teamRepo,
		venueRepo:       venueRepo,
		seasonRepo:      seasonRepo,
		userRepo:        userRepo,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrSameTeamMatch
	}

	if input.SeasonID > 0 {
		if _, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
			return nil, mapRepoNotFound(err)
		}
	} else {
		active, err := s.seasonRepo.GetActive(ctx)
		if err != nil {
			return nil, mapRepoNotFound(err)
		}
		input.SeasonID = active.ID
	}

	for _, teamID := range []int{input.HomeTeamID, input.AwayTeamID} {
		if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
			return nil, mapRepoNotFound(err)
		}
	}
	if input.VenueID != nil {
		if _, err := s.venueRepo.GetByID(ctx, *input.VenueID); err != nil {
			return nil, mapRepoNotFound(err)
		}
	}
	if input.Time == "" {
		input.Time = "7:00 PM"
	}

	match := &models.Match{
		SeasonID:   input.SeasonID,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		VenueID:    input.VenueID,
		Date:       input.Date,
		Time:       input.Time,
		Week:       input.Week,
		Status:     models.MatchStatusScheduled,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, mapRepoNotFound(err)
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	s.populate(ctx, match)
	if results, resultsErr := s.matchResultRepo.ListByMatch(ctx, id); resultsErr == nil {
		match.Results = results
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		s.populate(ctx, match)
	}
	return matches, nil
}

func (s *matchService) Update(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	if input.Date != nil {
		match.Date = *input.Date
	}
	if input.Time != nil {
		match.Time = *input.Time
	}
	if input.VenueID != nil {
		if _, venueErr := s.venueRepo.GetByID(ctx, *input.VenueID); venueErr != nil {
			return nil, mapRepoNotFound(venueErr)
		}
		match.VenueID = input.VenueID
	}
	if input.Week != nil {
		match.Week = *input.Week
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidMatchStatus
		}
		match.Status = *input.Status
	}

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, mapRepoNotFound(err)
	}
	return match, nil
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	return mapRepoNotFound(s.matchRepo.Delete(ctx, id))
}

func (s *matchService) ListResults(ctx context.Context, matchID int) ([]*models.MatchResult, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return nil, mapRepoNotFound(err)
	}
	results, err := s.matchResultRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		if player, playerErr := s.userRepo.GetByID(ctx, result.PlayerID); playerErr == nil {
			player.PasswordHash = ""
			result.Player = player
		}
	}
	return results, nil
}

func (s *matchService) populate(ctx context.Context, match *models.Match) {
	if home, err := s.teamRepo.GetByID(ctx, match.HomeTeamID); err == nil {
		match.HomeTeam = home
	}
	if away, err := s.teamRepo.GetByID(ctx, match.AwayTeamID); err == nil {
		match.AwayTeam = away
	}
	if match.VenueID != nil {
		if venue, err := s.venueRepo.GetByID(ctx, *match.VenueID); err == nil {
			match.Venue = venue
		}
	}
}
