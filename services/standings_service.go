package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rackline/pool-league-system/league"
	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

// RecordGameResultInput identifies one individual game outcome within
// a match.
type RecordGameResultInput struct {
	MatchID    int  `json:"-"`
	PlayerID   int  `json:"player_id"`
	GameNumber int  `json:"game_number"`
	Won        bool `json:"won"`
	IsRunout   bool `json:"is_runout"`
}

// HeadToHeadSide is one team's half of a head-to-head record.
type HeadToHeadSide struct {
	Team *models.Team `json:"team"`
	Wins int          `json:"wins"`
}

type HeadToHead struct {
	Team1        HeadToHeadSide  `json:"team1"`
	Team2        HeadToHeadSide  `json:"team2"`
	TotalMatches int             `json:"total_matches"`
	Matches      []*models.Match `json:"matches"`
}

// StandingsService maintains team standings and player stats as match
// and game results are recorded, and keeps the dense season ranking
// current. All multi-row updates run inside a single transaction so a
// crash cannot leave ranks inconsistent with win/loss counts.
type StandingsService interface {
	RecordMatchScore(ctx context.Context, matchID, homeScore, awayScore int) (*models.Match, error)
	RecordGameResult(ctx context.Context, input RecordGameResultInput) (*models.PlayerStats, error)
	RecalculateSeasonStandings(ctx context.Context, seasonID int) error
	ListStandings(ctx context.Context, seasonID *int) ([]*models.Standing, error)
	GetTeamStanding(ctx context.Context, teamID int) (*models.Standing, error)
	ListPlayerRankings(ctx context.Context, seasonID *int, limit int) ([]*models.PlayerStats, error)
	GetHeadToHead(ctx context.Context, team1ID, team2ID int, seasonID *int) (*HeadToHead, error)
}

type standingsService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	matchResultRepo repositories.MatchResultRepository
	standingRepo    repositories.StandingRepository
	playerStatsRepo repositories.PlayerStatsRepository
	teamRepo        repositories.TeamRepository
	seasonRepo      repositories.SeasonRepository
	userRepo        repositories.UserRepository
	hub             *league.Hub
	logger          *slog.Logger
}

func NewStandingsService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	matchResultRepo repositories.MatchResultRepository,
	standingRepo repositories.StandingRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	teamRepo repositories.TeamRepository,
	seasonRepo repositories.SeasonRepository,
	userRepo repositories.UserRepository,
	hub *league.Hub,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		db:              db,
		matchRepo:       matchRepo,
		matchResultRepo: matchResultRepo,
		standingRepo:    standingRepo,
		playerStatsRepo: playerStatsRepo,
		teamRepo:        teamRepo,
		seasonRepo:      seasonRepo,
		userRepo:        userRepo,
		hub:             hub,
		logger:          logger,
	}
}

// RecordMatchScore stores the final score, marks the match COMPLETED,
// credits a win and a loss to the two teams, and rewrites the season's
// dense ranking. A fresh score takes the incremental path; re-scoring
// an already completed match rebuilds the season from its completed
// matches instead, so the previous outcome is fully reversed rather
// than double counted.
func (s *standingsService) RecordMatchScore(ctx context.Context, matchID, homeScore, awayScore int) (*models.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrNegativeScore
	}
	if homeScore == awayScore {
		return nil, ErrTiedScore
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	rescore := match.Status == models.MatchStatusCompleted && match.HomeScore != nil && match.AwayScore != nil

	// Team list is needed up front for the replay path; it is a
	// read-only lookup and safe outside the transaction.
	var teams []*models.Team
	if rescore {
		teams, err = s.teamRepo.ListBySeason(ctx, match.SeasonID)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams for season %d: %w", match.SeasonID, err)
		}
	}

	var updated *models.Match
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var txErr error
		updated, txErr = s.matchRepo.UpdateScore(ctx, tx, matchID, homeScore, awayScore)
		if txErr != nil {
			return mapRepoNotFound(txErr)
		}
		if rescore {
			return s.replaySeason(ctx, tx, match.SeasonID, teams)
		}
		if txErr = s.applyMatchOutcome(ctx, tx, updated); txErr != nil {
			return txErr
		}
		return s.recomputeRanks(ctx, tx, match.SeasonID)
	})
	if err != nil {
		return nil, err
	}

	room := league.SeasonRoom(updated.SeasonID)
	s.hub.BroadcastToRoom(room, league.EventMatchScored, updated)
	s.hub.BroadcastToRoom(room, league.EventStandingsUpdated, map[string]int{"season_id": updated.SeasonID})

	return updated, nil
}

// applyMatchOutcome credits both teams for one completed match,
// creating standings lazily on first participation.
func (s *standingsService) applyMatchOutcome(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	homeWon := match.HomeWon()
	for _, side := range []struct {
		teamID int
		won    bool
	}{
		{match.HomeTeamID, homeWon},
		{match.AwayTeamID, !homeWon},
	} {
		standing, err := s.standingRepo.GetOrCreate(ctx, tx, side.teamID, match.SeasonID)
		if err != nil {
			return err
		}
		if side.won {
			standing.Wins++
		} else {
			standing.Losses++
		}
		standing.Streak = standing.Streak.Apply(side.won)
		if err := s.standingRepo.Update(ctx, tx, standing); err != nil {
			return fmt.Errorf("failed to update standing for team %d: %w", side.teamID, err)
		}
	}
	return nil
}

// recomputeRanks rewrites the dense 1..K ranking for every standing in
// the season. The repository's sort key (wins desc, losses asc, team
// id asc) makes tie order deterministic. Every row is rewritten even
// when its rank is unchanged.
func (s *standingsService) recomputeRanks(ctx context.Context, tx *sql.Tx, seasonID int) error {
	standings, err := s.standingRepo.ListBySeason(ctx, tx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to list standings for season %d: %w", seasonID, err)
	}
	for i, standing := range standings {
		if err := s.standingRepo.UpdateRank(ctx, tx, standing.ID, i+1); err != nil {
			return fmt.Errorf("failed to update rank for standing %d: %w", standing.ID, err)
		}
	}
	return nil
}

// replaySeason rebuilds wins, losses and streaks for every team from
// the season's completed matches in chronological order, then rewrites
// ranks. Used for re-scores and for explicit recovery.
func (s *standingsService) replaySeason(ctx context.Context, tx *sql.Tx, seasonID int, teams []*models.Team) error {
	type record struct {
		wins, losses int
		streak       models.Streak
	}
	records := make(map[int]*record, len(teams))
	for _, team := range teams {
		records[team.ID] = &record{}
	}

	matches, err := s.matchRepo.ListCompletedBySeason(ctx, tx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to list completed matches for season %d: %w", seasonID, err)
	}

	for _, match := range matches {
		homeWon := match.HomeWon()
		if home, ok := records[match.HomeTeamID]; ok {
			if homeWon {
				home.wins++
			} else {
				home.losses++
			}
			home.streak = home.streak.Apply(homeWon)
		}
		if away, ok := records[match.AwayTeamID]; ok {
			if !homeWon {
				away.wins++
			} else {
				away.losses++
			}
			away.streak = away.streak.Apply(!homeWon)
		}
	}

	for teamID, rec := range records {
		standing, err := s.standingRepo.GetOrCreate(ctx, tx, teamID, seasonID)
		if err != nil {
			return err
		}
		standing.Wins = rec.wins
		standing.Losses = rec.losses
		standing.Streak = rec.streak
		if err := s.standingRepo.Update(ctx, tx, standing); err != nil {
			return fmt.Errorf("failed to update standing for team %d: %w", teamID, err)
		}
	}

	return s.recomputeRanks(ctx, tx, seasonID)
}

// RecordGameResult upserts the individual game record keyed by
// (match, player, game number) and adjusts the player's season stats
// by the delta against any prior record for that key, so resubmitting
// a correction never double counts.
func (s *standingsService) RecordGameResult(ctx context.Context, input RecordGameResultInput) (*models.PlayerStats, error) {
	if input.PlayerID <= 0 || input.GameNumber <= 0 {
		return nil, fmt.Errorf("%w: player id and game number are required", ErrValidationFailed)
	}

	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	var stats *models.PlayerStats
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		prior, txErr := s.matchResultRepo.GetByKey(ctx, tx, input.MatchID, input.PlayerID, input.GameNumber)
		if txErr != nil && !errors.Is(txErr, repositories.ErrMatchResultNotFound) {
			return txErr
		}

		result := &models.MatchResult{
			MatchID:    input.MatchID,
			PlayerID:   input.PlayerID,
			GameNumber: input.GameNumber,
			Won:        input.Won,
			IsRunout:   input.IsRunout,
		}
		if txErr = s.matchResultRepo.Upsert(ctx, tx, result); txErr != nil {
			return txErr
		}

		winsDelta := boolToInt(input.Won)
		lossesDelta := boolToInt(!input.Won)
		runoutsDelta := boolToInt(input.IsRunout)
		if prior != nil {
			winsDelta -= boolToInt(prior.Won)
			lossesDelta -= boolToInt(!prior.Won)
			runoutsDelta -= boolToInt(prior.IsRunout)
		}

		stats, txErr = s.playerStatsRepo.ApplyDelta(ctx, tx, input.PlayerID, match.SeasonID, winsDelta, lossesDelta, runoutsDelta)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RecalculateSeasonStandings is the explicit recovery path: it trusts
// nothing incremental and rebuilds the whole season from completed
// matches.
func (s *standingsService) RecalculateSeasonStandings(ctx context.Context, seasonID int) error {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return mapRepoNotFound(err)
	}
	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to list teams for season %d: %w", seasonID, err)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.replaySeason(ctx, tx, seasonID, teams)
	})
	if err != nil {
		return err
	}

	s.logger.Info("season standings recalculated", slog.Int("season_id", seasonID), slog.Int("teams", len(teams)))
	s.hub.BroadcastToRoom(league.SeasonRoom(seasonID), league.EventStandingsUpdated, map[string]int{"season_id": seasonID})
	return nil
}

func (s *standingsService) ListStandings(ctx context.Context, seasonID *int) ([]*models.Standing, error) {
	id, err := s.resolveSeasonID(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	standings, err := s.standingRepo.ListBySeasonRanked(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, standing := range standings {
		team, teamErr := s.teamRepo.GetByID(ctx, standing.TeamID)
		if teamErr != nil {
			s.logger.Warn("failed to load team for standing", slog.Int("team_id", standing.TeamID), slog.Any("error", teamErr))
			continue
		}
		standing.Team = team
	}
	return standings, nil
}

func (s *standingsService) GetTeamStanding(ctx context.Context, teamID int) (*models.Standing, error) {
	standing, err := s.standingRepo.GetByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if team, teamErr := s.teamRepo.GetByID(ctx, standing.TeamID); teamErr == nil {
		standing.Team = team
	}
	return standing, nil
}

func (s *standingsService) ListPlayerRankings(ctx context.Context, seasonID *int, limit int) ([]*models.PlayerStats, error) {
	id, err := s.resolveSeasonID(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	stats, err := s.playerStatsRepo.ListBySeason(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	for _, stat := range stats {
		player, playerErr := s.userRepo.GetByID(ctx, stat.PlayerID)
		if playerErr != nil {
			continue
		}
		player.PasswordHash = ""
		stat.Player = player
	}
	return stats, nil
}

func (s *standingsService) GetHeadToHead(ctx context.Context, team1ID, team2ID int, seasonID *int) (*HeadToHead, error) {
	team1, err := s.teamRepo.GetByID(ctx, team1ID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	team2, err := s.teamRepo.GetByID(ctx, team2ID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	matches, err := s.matchRepo.ListHeadToHead(ctx, team1ID, team2ID, seasonID)
	if err != nil {
		return nil, err
	}

	h2h := &HeadToHead{
		Team1:        HeadToHeadSide{Team: team1},
		Team2:        HeadToHeadSide{Team: team2},
		TotalMatches: len(matches),
		Matches:      matches,
	}
	for _, match := range matches {
		team1Won := (match.HomeTeamID == team1ID) == match.HomeWon()
		if team1Won {
			h2h.Team1.Wins++
		} else {
			h2h.Team2.Wins++
		}
	}
	return h2h, nil
}

func (s *standingsService) resolveSeasonID(ctx context.Context, seasonID *int) (int, error) {
	if seasonID != nil {
		return *seasonID, nil
	}
	active, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		return 0, mapRepoNotFound(err)
	}
	return active.ID, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
