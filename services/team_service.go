package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

type CreateTeamInput struct {
	Name        string `json:"name"`
	SeasonID    int    `json:"season_id"`
	CaptainID   *int   `json:"captain_id,omitempty"`
	CoCaptainID *int   `json:"co_captain_id,omitempty"`
	HomeVenueID *int   `json:"home_venue_id,omitempty"`
}

type UpdateTeamInput struct {
	Name        *string `json:"name,omitempty"`
	CaptainID   *int    `json:"captain_id,omitempty"`
	CoCaptainID *int    `json:"co_captain_id,omitempty"`
	HomeVenueID *int    `json:"home_venue_id,omitempty"`
}

// TeamService manages team rosters within a season. Creating a team
// with a captain also moves that user onto the roster and promotes
// them to CAPTAIN if they are a plain player.
type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListBySeason(ctx context.Context, seasonID *int) ([]*models.Team, error)
	Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	AddMember(ctx context.Context, teamID, userID int) error
	RemoveMember(ctx context.Context, teamID, userID int) error
	ListMembers(ctx context.Context, teamID int) ([]*models.User, error)
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	userRepo   repositories.UserRepository
	seasonRepo repositories.SeasonRepository
	venueRepo  repositories.VenueRepository
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	seasonRepo repositories.SeasonRepository,
	venueRepo repositories.VenueRepository,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		seasonRepo: seasonRepo,
		venueRepo:  venueRepo,
	}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrTeamNameRequired
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

	if err := s.validateReferences(ctx, input.CaptainID, input.CoCaptainID, input.HomeVenueID); err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:        input.Name,
		SeasonID:    input.SeasonID,
		CaptainID:   input.CaptainID,
		CoCaptainID: input.CoCaptainID,
		HomeVenueID: input.HomeVenueID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, mapRepoNotFound(err)
	}

	for _, captainID := range []*int{input.CaptainID, input.CoCaptainID} {
		if captainID == nil {
			continue
		}
		if err := s.promoteCaptain(ctx, *captainID, team.ID); err != nil {
			return nil, err
		}
	}
	return team, nil
}

// promoteCaptain puts the user on the roster and lifts a PLAYER to
// CAPTAIN. Admin and league official roles are left alone.
func (s *teamService) promoteCaptain(ctx context.Context, userID, teamID int) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return mapRepoNotFound(err)
	}
	user.TeamID = &teamID
	if user.Role == models.RolePlayer {
		user.Role = models.RoleCaptain
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update captain %d: %w", userID, err)
	}
	return nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	s.populate(ctx, team)
	return team, nil
}

func (s *teamService) ListBySeason(ctx context.Context, seasonID *int) ([]*models.Team, error) {
	id := 0
	if seasonID != nil {
		id = *seasonID
	} else {
		active, err := s.seasonRepo.GetActive(ctx)
		if err != nil {
			return nil, mapRepoNotFound(err)
		}
		id = active.ID
	}
	teams, err := s.teamRepo.ListBySeason(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		s.populate(ctx, team)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = name
	}
	if err := s.validateReferences(ctx, input.CaptainID, input.CoCaptainID, input.HomeVenueID); err != nil {
		return nil, err
	}
	if input.CaptainID != nil {
		team.CaptainID = input.CaptainID
	}
	if input.CoCaptainID != nil {
		team.CoCaptainID = input.CoCaptainID
	}
	if input.HomeVenueID != nil {
		team.HomeVenueID = input.HomeVenueID
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, mapRepoNotFound(err)
	}

	for _, captainID := range []*int{input.CaptainID, input.CoCaptainID} {
		if captainID == nil {
			continue
		}
		if err := s.promoteCaptain(ctx, *captainID, team.ID); err != nil {
			return nil, err
		}
	}
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if _, err := s.teamRepo.GetByID(ctx, id); err != nil {
		return mapRepoNotFound(err)
	}
	return mapRepoNotFound(s.teamRepo.Delete(ctx, id))
}

func (s *teamService) AddMember(ctx context.Context, teamID, userID int) error {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return mapRepoNotFound(err)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return mapRepoNotFound(err)
	}
	return s.userRepo.SetTeam(ctx, nil, userID, &teamID)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, userID int) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return mapRepoNotFound(err)
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return fmt.Errorf("%w: user %d is not on team %d", ErrValidationFailed, userID, teamID)
	}
	return s.userRepo.SetTeam(ctx, nil, userID, nil)
}

func (s *teamService) ListMembers(ctx context.Context, teamID int) ([]*models.User, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, mapRepoNotFound(err)
	}
	members, err := s.userRepo.List(ctx, &teamID, nil)
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		member.PasswordHash = ""
	}
	return members, nil
}

func (s *teamService) validateReferences(ctx context.Context, captainID, coCaptainID, venueID *int) error {
	for _, userID := range []*int{captainID, coCaptainID} {
		if userID == nil {
			continue
		}
		if _, err := s.userRepo.GetByID(ctx, *userID); err != nil {
			return mapRepoNotFound(err)
		}
	}
	if venueID != nil {
		if _, err := s.venueRepo.GetByID(ctx, *venueID); err != nil {
			return mapRepoNotFound(err)
		}
	}
	return nil
}

func (s *teamService) populate(ctx context.Context, team *models.Team) {
	if team.CaptainID != nil {
		if captain, err := s.userRepo.GetByID(ctx, *team.CaptainID); err == nil {
			captain.PasswordHash = ""
			team.Captain = captain
		}
	}
	if team.CoCaptainID != nil {
		if coCaptain, err := s.userRepo.GetByID(ctx, *team.CoCaptainID); err == nil {
			coCaptain.PasswordHash = ""
			team.CoCaptain = coCaptain
		}
	}
}
