package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/pool-league-system/league"
	"github.com/rackline/pool-league-system/models"
)

type standingsFixture struct {
	service     StandingsService
	matches     *fakeMatchRepo
	results     *fakeMatchResultRepo
	standings   *fakeStandingRepo
	playerStats *fakePlayerStatsRepo
	teams       *fakeTeamRepo
	seasons     *fakeSeasonRepo
}

func newStandingsFixture(t *testing.T, matches *fakeMatchRepo, teams *fakeTeamRepo, seasons *fakeSeasonRepo) *standingsFixture {
	t.Helper()
	f := &standingsFixture{
		matches:     matches,
		results:     newFakeMatchResultRepo(),
		standings:   newFakeStandingRepo(),
		playerStats: newFakePlayerStatsRepo(),
		teams:       teams,
		seasons:     seasons,
	}
	f.service = NewStandingsService(
		newTestDB(t),
		f.matches,
		f.results,
		f.standings,
		f.playerStats,
		f.teams,
		f.seasons,
		newFakeUserRepo(),
		league.NewHub(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func intPtr(v int) *int { return &v }

func scheduledMatch(id, seasonID, homeTeamID, awayTeamID int, date time.Time) *models.Match {
	return &models.Match{
		ID:         id,
		SeasonID:   seasonID,
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		Date:       date,
		Status:     models.MatchStatusScheduled,
	}
}

func completedMatch(id, seasonID, homeTeamID, awayTeamID int, date time.Time, homeScore, awayScore int) *models.Match {
	m := scheduledMatch(id, seasonID, homeTeamID, awayTeamID, date)
	m.Status = models.MatchStatusCompleted
	m.HomeScore = intPtr(homeScore)
	m.AwayScore = intPtr(awayScore)
	return m
}

func leagueTeams(seasonID int, ids ...int) []*models.Team {
	teams := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, &models.Team{ID: id, SeasonID: seasonID, Name: "Team " + string(rune('A'+id-1))})
	}
	return teams
}

func TestRecordMatchScoreRejectsInvalidScores(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(scheduledMatch(1, 10, 1, 2, date)),
		newFakeTeamRepo(leagueTeams(10, 1, 2)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	_, err := f.service.RecordMatchScore(context.Background(), 1, 7, 7)
	require.ErrorIs(t, err, ErrTiedScore)

	_, err = f.service.RecordMatchScore(context.Background(), 1, -1, 5)
	require.ErrorIs(t, err, ErrNegativeScore)

	_, err = f.service.RecordMatchScore(context.Background(), 99, 7, 5)
	require.ErrorIs(t, err, ErrMatchNotFound)

	// Nothing was written on any of the failed paths.
	assert.Empty(t, f.standings.byTeam)
}

func TestRecordMatchScoreFreshMatch(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(scheduledMatch(1, 10, 1, 2, date)),
		newFakeTeamRepo(leagueTeams(10, 1, 2)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	updated, err := f.service.RecordMatchScore(context.Background(), 1, 7, 5)
	require.NoError(t, err)
	require.Equal(t, models.MatchStatusCompleted, updated.Status)
	require.NotNil(t, updated.HomeScore)
	require.NotNil(t, updated.AwayScore)
	assert.Equal(t, 7, *updated.HomeScore)
	assert.Equal(t, 5, *updated.AwayScore)

	home := f.standings.mustGet(t, 1)
	assert.Equal(t, 1, home.Wins)
	assert.Equal(t, 0, home.Losses)
	assert.Equal(t, "W1", home.Streak.Token())
	require.NotNil(t, home.Rank)
	assert.Equal(t, 1, *home.Rank)

	away := f.standings.mustGet(t, 2)
	assert.Equal(t, 0, away.Wins)
	assert.Equal(t, 1, away.Losses)
	assert.Equal(t, "L1", away.Streak.Token())
	require.NotNil(t, away.Rank)
	assert.Equal(t, 2, *away.Rank)
}

func TestRecordMatchScoreStreakAcrossMatches(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(
			scheduledMatch(1, 10, 1, 2, date),
			scheduledMatch(2, 10, 2, 1, date.AddDate(0, 0, 7)),
			scheduledMatch(3, 10, 1, 2, date.AddDate(0, 0, 14)),
		),
		newFakeTeamRepo(leagueTeams(10, 1, 2)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	_, err := f.service.RecordMatchScore(context.Background(), 1, 7, 3)
	require.NoError(t, err)
	_, err = f.service.RecordMatchScore(context.Background(), 2, 2, 7)
	require.NoError(t, err)

	home := f.standings.mustGet(t, 1)
	assert.Equal(t, 2, home.Wins)
	assert.Equal(t, "W2", home.Streak.Token())

	// A loss resets the streak to L1 rather than decrementing it.
	_, err = f.service.RecordMatchScore(context.Background(), 3, 4, 7)
	require.NoError(t, err)

	home = f.standings.mustGet(t, 1)
	assert.Equal(t, 2, home.Wins)
	assert.Equal(t, 1, home.Losses)
	assert.Equal(t, "L1", home.Streak.Token())

	away := f.standings.mustGet(t, 2)
	assert.Equal(t, "W1", away.Streak.Token())
}

func TestRecordMatchScoreRescoreReplaysSeason(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(scheduledMatch(1, 10, 1, 2, date)),
		newFakeTeamRepo(leagueTeams(10, 1, 2)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	_, err := f.service.RecordMatchScore(context.Background(), 1, 7, 5)
	require.NoError(t, err)

	// Correcting the score must reverse the old outcome, not stack a
	// second win on top of it.
	_, err = f.service.RecordMatchScore(context.Background(), 1, 5, 7)
	require.NoError(t, err)

	home := f.standings.mustGet(t, 1)
	assert.Equal(t, 0, home.Wins)
	assert.Equal(t, 1, home.Losses)
	assert.Equal(t, "L1", home.Streak.Token())
	require.NotNil(t, home.Rank)
	assert.Equal(t, 2, *home.Rank)

	away := f.standings.mustGet(t, 2)
	assert.Equal(t, 1, away.Wins)
	assert.Equal(t, 0, away.Losses)
	assert.Equal(t, "W1", away.Streak.Token())
	require.NotNil(t, away.Rank)
	assert.Equal(t, 1, *away.Rank)
}

func TestRecalculateSeasonStandings(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(
			completedMatch(1, 10, 1, 2, date, 7, 5),
			completedMatch(2, 10, 3, 1, date.AddDate(0, 0, 7), 2, 7),
			completedMatch(3, 10, 2, 3, date.AddDate(0, 0, 7), 7, 6),
			completedMatch(4, 10, 1, 2, date.AddDate(0, 0, 14), 3, 7),
			scheduledMatch(5, 10, 3, 1, date.AddDate(0, 0, 21)),
		),
		newFakeTeamRepo(leagueTeams(10, 1, 2, 3)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	require.NoError(t, f.service.RecalculateSeasonStandings(context.Background(), 10))

	// Team 1: W, W, L across matches 1, 2, 4.
	team1 := f.standings.mustGet(t, 1)
	assert.Equal(t, 2, team1.Wins)
	assert.Equal(t, 1, team1.Losses)
	assert.Equal(t, "L1", team1.Streak.Token())

	// Team 2: L, W, W across matches 1, 3, 4.
	team2 := f.standings.mustGet(t, 2)
	assert.Equal(t, 2, team2.Wins)
	assert.Equal(t, 1, team2.Losses)
	assert.Equal(t, "W2", team2.Streak.Token())

	// Team 3: L, L across matches 2, 3. The scheduled match is ignored.
	team3 := f.standings.mustGet(t, 3)
	assert.Equal(t, 0, team3.Wins)
	assert.Equal(t, 2, team3.Losses)
	assert.Equal(t, "L2", team3.Streak.Token())

	// Teams 1 and 2 are tied at 2-1; the lower team id ranks first.
	require.NotNil(t, team1.Rank)
	require.NotNil(t, team2.Rank)
	require.NotNil(t, team3.Rank)
	assert.Equal(t, 1, *team1.Rank)
	assert.Equal(t, 2, *team2.Rank)
	assert.Equal(t, 3, *team3.Rank)
}

func TestRecalculateSeasonStandingsUnknownSeason(t *testing.T) {
	f := newStandingsFixture(t,
		newFakeMatchRepo(),
		newFakeTeamRepo(),
		newFakeSeasonRepo(),
	)
	err := f.service.RecalculateSeasonStandings(context.Background(), 42)
	require.ErrorIs(t, err, ErrSeasonNotFound)
}

func TestRecordGameResultAppliesDeltas(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(completedMatch(1, 10, 1, 2, date, 7, 5)),
		newFakeTeamRepo(leagueTeams(10, 1, 2)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	stats, err := f.service.RecordGameResult(context.Background(), RecordGameResultInput{
		MatchID:    1,
		PlayerID:   5,
		GameNumber: 1,
		Won:        true,
		IsRunout:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 0, stats.Losses)
	assert.Equal(t, 1, stats.Runouts)

	stats, err = f.service.RecordGameResult(context.Background(), RecordGameResultInput{
		MatchID:    1,
		PlayerID:   5,
		GameNumber: 2,
		Won:        false,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Runouts)
}

func TestRecordGameResultResubmissionDoesNotDoubleCount(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(completedMatch(1, 10, 1, 2, date, 7, 5)),
		newFakeTeamRepo(leagueTeams(10, 1, 2)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	input := RecordGameResultInput{MatchID: 1, PlayerID: 5, GameNumber: 1, Won: true, IsRunout: true}
	_, err := f.service.RecordGameResult(context.Background(), input)
	require.NoError(t, err)

	// Same key, same outcome: a no-op.
	stats, err := f.service.RecordGameResult(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 0, stats.Losses)
	assert.Equal(t, 1, stats.Runouts)

	// Same key, corrected outcome: the win moves to a loss and the
	// runout is withdrawn.
	input.Won = false
	input.IsRunout = false
	stats, err = f.service.RecordGameResult(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 0, stats.Runouts)

	results, err := f.results.ListByMatch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Won)
}

func TestRecordGameResultValidation(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(completedMatch(1, 10, 1, 2, date, 7, 5)),
		newFakeTeamRepo(leagueTeams(10, 1, 2)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	_, err := f.service.RecordGameResult(context.Background(), RecordGameResultInput{MatchID: 1, PlayerID: 0, GameNumber: 1})
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.service.RecordGameResult(context.Background(), RecordGameResultInput{MatchID: 99, PlayerID: 5, GameNumber: 1})
	require.ErrorIs(t, err, ErrMatchNotFound)
}

func TestGetHeadToHead(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := newStandingsFixture(t,
		newFakeMatchRepo(
			completedMatch(1, 10, 1, 2, date, 7, 5),
			completedMatch(2, 10, 2, 1, date.AddDate(0, 0, 7), 7, 4),
			completedMatch(3, 10, 1, 2, date.AddDate(0, 0, 14), 6, 2),
			completedMatch(4, 10, 1, 3, date.AddDate(0, 0, 21), 7, 1),
			scheduledMatch(5, 10, 2, 1, date.AddDate(0, 0, 28)),
		),
		newFakeTeamRepo(leagueTeams(10, 1, 2, 3)...),
		newFakeSeasonRepo(&models.Season{ID: 10, IsActive: true}),
	)

	h2h, err := f.service.GetHeadToHead(context.Background(), 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, h2h.TotalMatches)
	assert.Equal(t, 2, h2h.Team1.Wins)
	assert.Equal(t, 1, h2h.Team2.Wins)
	require.NotNil(t, h2h.Team1.Team)
	require.NotNil(t, h2h.Team2.Team)
	assert.Equal(t, 1, h2h.Team1.Team.ID)
	assert.Equal(t, 2, h2h.Team2.Team.ID)
	assert.Len(t, h2h.Matches, 3)
}
