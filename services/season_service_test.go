package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/pool-league-system/models"
)

type seasonFixture struct {
	service   SeasonService
	seasons   *fakeSeasonRepo
	teams     *fakeTeamRepo
	matches   *fakeMatchRepo
	standings *fakeStandingRepo
}

func newSeasonFixture(t *testing.T, seasons *fakeSeasonRepo, teams *fakeTeamRepo, matches *fakeMatchRepo) *seasonFixture {
	t.Helper()
	f := &seasonFixture{
		seasons:   seasons,
		teams:     teams,
		matches:   matches,
		standings: newFakeStandingRepo(),
	}
	f.service = NewSeasonService(
		newTestDB(t),
		seasons,
		teams,
		matches,
		newFakeMatchResultRepo(),
		f.standings,
		newFakePlayerStatsRepo(),
		newFakeUserRepo(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func seasonDates() (time.Time, time.Time) {
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 4, 0)
}

func TestCreateSeasonValidation(t *testing.T) {
	f := newSeasonFixture(t, newFakeSeasonRepo(), newFakeTeamRepo(), newFakeMatchRepo())
	start, end := seasonDates()

	_, err := f.service.Create(context.Background(), CreateSeasonInput{Name: "  ", StartDate: start, EndDate: end})
	require.ErrorIs(t, err, ErrSeasonNameRequired)

	_, err = f.service.Create(context.Background(), CreateSeasonInput{Name: "Spring 2026", StartDate: end, EndDate: start})
	require.ErrorIs(t, err, ErrSeasonInvalidDates)

	_, err = f.service.Create(context.Background(), CreateSeasonInput{Name: "Spring 2026", StartDate: start, EndDate: start})
	require.ErrorIs(t, err, ErrSeasonInvalidDates)

	season, err := f.service.Create(context.Background(), CreateSeasonInput{Name: " Spring 2026 ", StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, "Spring 2026", season.Name)
	assert.False(t, season.IsActive)
}

func TestActivateSeasonDeactivatesOthers(t *testing.T) {
	start, end := seasonDates()
	f := newSeasonFixture(t,
		newFakeSeasonRepo(
			&models.Season{ID: 1, Name: "Winter 2026", StartDate: start.AddDate(0, -4, 0), EndDate: start, IsActive: true},
			&models.Season{ID: 2, Name: "Spring 2026", StartDate: start, EndDate: end},
		),
		newFakeTeamRepo(),
		newFakeMatchRepo(),
	)

	season, err := f.service.Activate(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, season.IsActive)

	previous, err := f.service.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, previous.IsActive)

	_, err = f.service.Activate(context.Background(), 99)
	require.ErrorIs(t, err, ErrSeasonNotFound)
}

func TestDeleteSeason(t *testing.T) {
	start, end := seasonDates()
	f := newSeasonFixture(t,
		newFakeSeasonRepo(
			&models.Season{ID: 1, Name: "Winter 2026", StartDate: start.AddDate(0, -4, 0), EndDate: start},
			&models.Season{ID: 2, Name: "Spring 2026", StartDate: start, EndDate: end, IsActive: true},
		),
		newFakeTeamRepo(leagueTeams(1, 1, 2)...),
		newFakeMatchRepo(
			completedMatch(1, 1, 1, 2, start, 7, 5),
			scheduledMatch(2, 2, 3, 4, start),
		),
	)

	// The active season is protected.
	err := f.service.Delete(context.Background(), 2)
	require.ErrorIs(t, err, ErrDeleteActiveSeason)

	require.NoError(t, f.service.Delete(context.Background(), 1))

	_, err = f.service.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, ErrSeasonNotFound)

	teams, err := f.teams.ListBySeason(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, teams)

	// Season 2's schedule survives the cascade.
	require.Len(t, f.matches.matches, 1)
	_, ok := f.matches.matches[2]
	assert.True(t, ok)
}

func TestSeasonStats(t *testing.T) {
	start, end := seasonDates()
	f := newSeasonFixture(t,
		newFakeSeasonRepo(&models.Season{ID: 1, Name: "Spring 2026", StartDate: start, EndDate: end, IsActive: true}),
		newFakeTeamRepo(leagueTeams(1, 1, 2, 3, 4)...),
		newFakeMatchRepo(
			completedMatch(1, 1, 1, 2, start, 7, 5),
			completedMatch(2, 1, 3, 4, start, 4, 7),
			scheduledMatch(3, 1, 1, 3, start.AddDate(0, 0, 7)),
			scheduledMatch(4, 1, 2, 4, start.AddDate(0, 0, 7)),
		),
	)

	stats, err := f.service.Stats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTeams)
	assert.Equal(t, 4, stats.TotalMatches)
	assert.Equal(t, 2, stats.CompletedMatches)
	assert.Equal(t, 2, stats.RemainingMatches)
	assert.InDelta(t, 0.5, stats.CompletionRate, 1e-9)
}
