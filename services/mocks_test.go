package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

// In-memory repository fakes for service tests. Transactions come
// from a no-op sql driver so runInTx can begin and commit without a
// database; the fakes ignore the executor argument.

var errUnexpectedCall = errors.New("unexpected repository call")

type noopDriver struct{}

func (noopDriver) Open(string) (driver.Conn, error) { return noopConn{}, nil }

type noopConn struct{}

func (noopConn) Prepare(string) (driver.Stmt, error) { return nil, errUnexpectedCall }
func (noopConn) Close() error                        { return nil }
func (noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var registerNoopDriver sync.Once

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	registerNoopDriver.Do(func() {
		sql.Register("noop", noopDriver{})
	})
	db, err := sql.Open("noop", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[int]*models.Match)}
	for _, m := range matches {
		repo.matches[m.ID] = m
	}
	return repo
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = len(r.matches) + 1
	r.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) List(context.Context, repositories.MatchFilter) ([]*models.Match, error) {
	return nil, errUnexpectedCall
}

func (r *fakeMatchRepo) ListHeadToHead(_ context.Context, team1ID, team2ID int, seasonID *int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.sortedMatches() {
		if m.Status != models.MatchStatusCompleted {
			continue
		}
		if seasonID != nil && m.SeasonID != *seasonID {
			continue
		}
		if (m.HomeTeamID == team1ID && m.AwayTeamID == team2ID) || (m.HomeTeamID == team2ID && m.AwayTeamID == team1ID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListCompletedBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.sortedMatches() {
		if m.SeasonID == seasonID && m.Status == models.MatchStatusCompleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) sortedMatches() []*models.Match {
	out := make([]*models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeMatchRepo) Update(_ context.Context, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	r.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, id, homeScore, awayScore int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	match.Status = models.MatchStatusCompleted
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) DeleteBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) (int64, error) {
	var n int64
	for id, m := range r.matches {
		if m.SeasonID == seasonID {
			delete(r.matches, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeMatchRepo) CountBySeason(_ context.Context, seasonID int, status *models.MatchStatus, _ bool) (int, error) {
	count := 0
	for _, m := range r.matches {
		if m.SeasonID != seasonID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		count++
	}
	return count, nil
}

type fakeStandingRepo struct {
	byTeam map[int]*models.Standing
	nextID int
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{byTeam: make(map[int]*models.Standing)}
}

func (r *fakeStandingRepo) Create(_ context.Context, _ repositories.SQLExecutor, standing *models.Standing) error {
	r.nextID++
	standing.ID = r.nextID
	r.byTeam[standing.TeamID] = standing
	return nil
}

func (r *fakeStandingRepo) GetByTeam(_ context.Context, _ repositories.SQLExecutor, teamID int) (*models.Standing, error) {
	standing, ok := r.byTeam[teamID]
	if !ok {
		return nil, repositories.ErrStandingNotFound
	}
	copied := *standing
	return &copied, nil
}

func (r *fakeStandingRepo) ListBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) ([]*models.Standing, error) {
	var out []*models.Standing
	for _, s := range r.byTeam {
		if s.SeasonID == seasonID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Losses != out[j].Losses {
			return out[i].Losses < out[j].Losses
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

func (r *fakeStandingRepo) ListBySeasonRanked(ctx context.Context, seasonID int) ([]*models.Standing, error) {
	return r.ListBySeason(ctx, nil, seasonID)
}

func (r *fakeStandingRepo) Update(_ context.Context, _ repositories.SQLExecutor, standing *models.Standing) error {
	for teamID, existing := range r.byTeam {
		if existing.ID == standing.ID {
			copied := *standing
			r.byTeam[teamID] = &copied
			return nil
		}
	}
	return repositories.ErrStandingNotFound
}

func (r *fakeStandingRepo) UpdateRank(_ context.Context, _ repositories.SQLExecutor, standingID, rank int) error {
	for _, existing := range r.byTeam {
		if existing.ID == standingID {
			existing.Rank = &rank
			return nil
		}
	}
	return repositories.ErrStandingNotFound
}

func (r *fakeStandingRepo) GetOrCreate(ctx context.Context, exec repositories.SQLExecutor, teamID, seasonID int) (*models.Standing, error) {
	standing, err := r.GetByTeam(ctx, exec, teamID)
	if errors.Is(err, repositories.ErrStandingNotFound) {
		created := &models.Standing{TeamID: teamID, SeasonID: seasonID}
		if createErr := r.Create(ctx, exec, created); createErr != nil {
			return nil, createErr
		}
		return created, nil
	}
	return standing, err
}

func (r *fakeStandingRepo) DeleteBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) error {
	for teamID, s := range r.byTeam {
		if s.SeasonID == seasonID {
			delete(r.byTeam, teamID)
		}
	}
	return nil
}

func (r *fakeStandingRepo) mustGet(t *testing.T, teamID int) *models.Standing {
	t.Helper()
	standing, ok := r.byTeam[teamID]
	require.True(t, ok, "no standing for team %d", teamID)
	return standing
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, team := range teams {
		repo.teams[team.ID] = team
	}
	return repo
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	team.ID = len(r.teams) + 1
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (r *fakeTeamRepo) ListBySeason(_ context.Context, seasonID int) ([]*models.Team, error) {
	var out []*models.Team
	for _, team := range r.teams {
		if team.SeasonID == seasonID {
			out = append(out, team)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int) error {
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) DeleteBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) error {
	for id, team := range r.teams {
		if team.SeasonID == seasonID {
			delete(r.teams, id)
		}
	}
	return nil
}

func (r *fakeTeamRepo) CountBySeason(_ context.Context, seasonID int) (int, error) {
	count := 0
	for _, team := range r.teams {
		if team.SeasonID == seasonID {
			count++
		}
	}
	return count, nil
}

type fakePlayerStatsRepo struct {
	stats map[int]*models.PlayerStats // player ID -> row
}

func newFakePlayerStatsRepo() *fakePlayerStatsRepo {
	return &fakePlayerStatsRepo{stats: make(map[int]*models.PlayerStats)}
}

func (r *fakePlayerStatsRepo) GetByPlayerAndSeason(_ context.Context, _ repositories.SQLExecutor, playerID, seasonID int) (*models.PlayerStats, error) {
	row, ok := r.stats[playerID]
	if !ok || row.SeasonID != seasonID {
		return nil, repositories.ErrPlayerStatsNotFound
	}
	return row, nil
}

func (r *fakePlayerStatsRepo) ApplyDelta(_ context.Context, _ repositories.SQLExecutor, playerID, seasonID, winsDelta, lossesDelta, runoutsDelta int) (*models.PlayerStats, error) {
	row, ok := r.stats[playerID]
	if !ok {
		row = &models.PlayerStats{ID: len(r.stats) + 1, PlayerID: playerID, SeasonID: seasonID}
		r.stats[playerID] = row
	}
	row.Wins = max(row.Wins+winsDelta, 0)
	row.Losses = max(row.Losses+lossesDelta, 0)
	row.Runouts = max(row.Runouts+runoutsDelta, 0)
	copied := *row
	return &copied, nil
}

func (r *fakePlayerStatsRepo) ListBySeason(_ context.Context, seasonID int, limit int) ([]*models.PlayerStats, error) {
	var out []*models.PlayerStats
	for _, row := range r.stats {
		if row.SeasonID == seasonID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePlayerStatsRepo) CountBySeason(_ context.Context, seasonID int) (int, error) {
	count := 0
	for _, row := range r.stats {
		if row.SeasonID == seasonID {
			count++
		}
	}
	return count, nil
}

func (r *fakePlayerStatsRepo) DeleteBySeason(_ context.Context, _ repositories.SQLExecutor, seasonID int) error {
	for playerID, row := range r.stats {
		if row.SeasonID == seasonID {
			delete(r.stats, playerID)
		}
	}
	return nil
}

type resultKey struct {
	matchID, playerID, gameNumber int
}

type fakeMatchResultRepo struct {
	results map[resultKey]*models.MatchResult
}

func newFakeMatchResultRepo() *fakeMatchResultRepo {
	return &fakeMatchResultRepo{results: make(map[resultKey]*models.MatchResult)}
}

func (r *fakeMatchResultRepo) GetByKey(_ context.Context, _ repositories.SQLExecutor, matchID, playerID, gameNumber int) (*models.MatchResult, error) {
	result, ok := r.results[resultKey{matchID, playerID, gameNumber}]
	if !ok {
		return nil, repositories.ErrMatchResultNotFound
	}
	copied := *result
	return &copied, nil
}

func (r *fakeMatchResultRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, result *models.MatchResult) error {
	key := resultKey{result.MatchID, result.PlayerID, result.GameNumber}
	if existing, ok := r.results[key]; ok {
		result.ID = existing.ID
	} else {
		result.ID = len(r.results) + 1
	}
	copied := *result
	r.results[key] = &copied
	return nil
}

func (r *fakeMatchResultRepo) ListByMatch(_ context.Context, matchID int) ([]*models.MatchResult, error) {
	var out []*models.MatchResult
	for _, result := range r.results {
		if result.MatchID == matchID {
			out = append(out, result)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameNumber < out[j].GameNumber })
	return out, nil
}

func (r *fakeMatchResultRepo) DeleteBySeason(context.Context, repositories.SQLExecutor, int) error {
	return nil
}

type fakeSeasonRepo struct {
	seasons map[int]*models.Season
}

func newFakeSeasonRepo(seasons ...*models.Season) *fakeSeasonRepo {
	repo := &fakeSeasonRepo{seasons: make(map[int]*models.Season)}
	for _, season := range seasons {
		repo.seasons[season.ID] = season
	}
	return repo
}

func (r *fakeSeasonRepo) Create(_ context.Context, season *models.Season) error {
	season.ID = len(r.seasons) + 1
	r.seasons[season.ID] = season
	return nil
}

func (r *fakeSeasonRepo) GetByID(_ context.Context, id int) (*models.Season, error) {
	season, ok := r.seasons[id]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	return season, nil
}

func (r *fakeSeasonRepo) GetActive(_ context.Context) (*models.Season, error) {
	for _, season := range r.seasons {
		if season.IsActive {
			return season, nil
		}
	}
	return nil, repositories.ErrNoActiveSeason
}

func (r *fakeSeasonRepo) List(_ context.Context, activeOnly bool) ([]*models.Season, error) {
	var out []*models.Season
	for _, season := range r.seasons {
		if !activeOnly || season.IsActive {
			out = append(out, season)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSeasonRepo) Update(_ context.Context, season *models.Season) error {
	if _, ok := r.seasons[season.ID]; !ok {
		return repositories.ErrSeasonNotFound
	}
	r.seasons[season.ID] = season
	return nil
}

func (r *fakeSeasonRepo) DeactivateAll(context.Context, repositories.SQLExecutor) error {
	for _, season := range r.seasons {
		season.IsActive = false
	}
	return nil
}

func (r *fakeSeasonRepo) SetActive(_ context.Context, _ repositories.SQLExecutor, id int, active bool) error {
	season, ok := r.seasons[id]
	if !ok {
		return repositories.ErrSeasonNotFound
	}
	season.IsActive = active
	return nil
}

func (r *fakeSeasonRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.seasons[id]; !ok {
		return repositories.ErrSeasonNotFound
	}
	delete(r.seasons, id)
	return nil
}

type fakeInviteRepo struct {
	invites map[int]*models.Invite
}

func newFakeInviteRepo(invites ...*models.Invite) *fakeInviteRepo {
	repo := &fakeInviteRepo{invites: make(map[int]*models.Invite)}
	for _, invite := range invites {
		repo.invites[invite.ID] = invite
	}
	return repo
}

func (r *fakeInviteRepo) Create(_ context.Context, invite *models.Invite) error {
	invite.ID = len(r.invites) + 1
	r.invites[invite.ID] = invite
	return nil
}

func (r *fakeInviteRepo) GetByID(_ context.Context, id int) (*models.Invite, error) {
	invite, ok := r.invites[id]
	if !ok {
		return nil, repositories.ErrInviteNotFound
	}
	copied := *invite
	return &copied, nil
}

func (r *fakeInviteRepo) GetByToken(_ context.Context, token string) (*models.Invite, error) {
	for _, invite := range r.invites {
		if invite.Token == token {
			copied := *invite
			return &copied, nil
		}
	}
	return nil, repositories.ErrInviteNotFound
}

func (r *fakeInviteRepo) GetPendingByPhone(_ context.Context, phone string) (*models.Invite, error) {
	for _, invite := range r.invites {
		if invite.Phone == phone && invite.Status == models.InviteStatusPending {
			copied := *invite
			return &copied, nil
		}
	}
	return nil, repositories.ErrInviteNotFound
}

func (r *fakeInviteRepo) List(_ context.Context, status *models.InviteStatus, offset, limit int) ([]*models.Invite, int, error) {
	var out []*models.Invite
	for _, invite := range r.invites {
		if status == nil || invite.Status == *status {
			copied := *invite
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeInviteRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.InviteStatus) error {
	invite, ok := r.invites[id]
	if !ok {
		return repositories.ErrInviteNotFound
	}
	invite.Status = status
	return nil
}

func (r *fakeInviteRepo) UpdateToken(_ context.Context, id int, token string, expiresAt time.Time) error {
	invite, ok := r.invites[id]
	if !ok {
		return repositories.ErrInviteNotFound
	}
	invite.Token = token
	invite.ExpiresAt = expiresAt
	return nil
}

type sentSMS struct {
	To, Body string
}

// recordingSMSSender captures outbound messages for assertions.
type recordingSMSSender struct {
	sent []sentSMS
}

func (s *recordingSMSSender) Send(_ context.Context, to, body string) error {
	s.sent = append(s.sent, sentSMS{To: to, Body: body})
	return nil
}

type fakeVenueRepo struct {
	venues map[int]*models.Venue
}

func newFakeVenueRepo(venues ...*models.Venue) *fakeVenueRepo {
	repo := &fakeVenueRepo{venues: make(map[int]*models.Venue)}
	for _, venue := range venues {
		repo.venues[venue.ID] = venue
	}
	return repo
}

func (r *fakeVenueRepo) Create(_ context.Context, venue *models.Venue) error {
	venue.ID = len(r.venues) + 1
	r.venues[venue.ID] = venue
	return nil
}

func (r *fakeVenueRepo) GetByID(_ context.Context, id int) (*models.Venue, error) {
	venue, ok := r.venues[id]
	if !ok {
		return nil, repositories.ErrVenueNotFound
	}
	return venue, nil
}

func (r *fakeVenueRepo) List(_ context.Context, activeOnly bool) ([]*models.Venue, error) {
	var out []*models.Venue
	for _, venue := range r.venues {
		if !activeOnly || venue.IsActive {
			out = append(out, venue)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeVenueRepo) Update(_ context.Context, venue *models.Venue) error {
	if _, ok := r.venues[venue.ID]; !ok {
		return repositories.ErrVenueNotFound
	}
	r.venues[venue.ID] = venue
	return nil
}

func (r *fakeVenueRepo) Delete(_ context.Context, id int) error {
	delete(r.venues, id)
	return nil
}

type fakeAuditLogRepo struct {
	entries []*models.AuditLog
}

func newFakeAuditLogRepo() *fakeAuditLogRepo { return &fakeAuditLogRepo{} }

func (r *fakeAuditLogRepo) Create(_ context.Context, entry *models.AuditLog) error {
	entry.ID = len(r.entries) + 1
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditLogRepo) List(context.Context, repositories.AuditLogFilter) ([]*models.AuditLog, int, error) {
	return r.entries, len(r.entries), nil
}

func (r *fakeAuditLogRepo) ListRecent(_ context.Context, limit int) ([]*models.AuditLog, error) {
	if limit > 0 && len(r.entries) > limit {
		return r.entries[len(r.entries)-limit:], nil
	}
	return r.entries, nil
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, _ repositories.SQLExecutor, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = len(r.users) + 1
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context, teamID *int, isActive *bool) ([]*models.User, error) {
	var out []*models.User
	for _, user := range r.users {
		if teamID != nil && (user.TeamID == nil || *user.TeamID != *teamID) {
			continue
		}
		if isActive != nil && user.IsActive != *isActive {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id int, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) SetTeam(_ context.Context, _ repositories.SQLExecutor, userID int, teamID *int) error {
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.TeamID = teamID
	return nil
}

func (r *fakeUserRepo) ClearTeamForSeason(context.Context, repositories.SQLExecutor, int) error {
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountBySeason(context.Context, int) (int, error) { return len(r.users), nil }

func (r *fakeUserRepo) Count(_ context.Context, isActive *bool) (int, error) {
	count := 0
	for _, user := range r.users {
		if isActive == nil || user.IsActive == *isActive {
			count++
		}
	}
	return count, nil
}

type fakeAnnouncementRepo struct {
	announcements map[int]*models.Announcement
	nextID        int
}

func newFakeAnnouncementRepo(announcements ...*models.Announcement) *fakeAnnouncementRepo {
	repo := &fakeAnnouncementRepo{announcements: make(map[int]*models.Announcement)}
	for _, announcement := range announcements {
		repo.announcements[announcement.ID] = announcement
		if announcement.ID > repo.nextID {
			repo.nextID = announcement.ID
		}
	}
	return repo
}

func (r *fakeAnnouncementRepo) Create(_ context.Context, announcement *models.Announcement) error {
	r.nextID++
	announcement.ID = r.nextID
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now()
	}
	announcement.UpdatedAt = announcement.CreatedAt
	r.announcements[announcement.ID] = announcement
	return nil
}

func (r *fakeAnnouncementRepo) GetByID(_ context.Context, id int) (*models.Announcement, error) {
	announcement, ok := r.announcements[id]
	if !ok {
		return nil, repositories.ErrAnnouncementNotFound
	}
	return announcement, nil
}

func (r *fakeAnnouncementRepo) List(_ context.Context, activeOnly bool, offset, limit int) ([]*models.Announcement, int, error) {
	var out []*models.Announcement
	for _, announcement := range r.announcements {
		if activeOnly && !announcement.IsActive {
			continue
		}
		out = append(out, announcement)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsUrgent != out[j].IsUrgent {
			return out[i].IsUrgent
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeAnnouncementRepo) Update(_ context.Context, announcement *models.Announcement) error {
	if _, ok := r.announcements[announcement.ID]; !ok {
		return repositories.ErrAnnouncementNotFound
	}
	announcement.UpdatedAt = time.Now()
	r.announcements[announcement.ID] = announcement
	return nil
}

func (r *fakeAnnouncementRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.announcements[id]; !ok {
		return repositories.ErrAnnouncementNotFound
	}
	delete(r.announcements, id)
	return nil
}
