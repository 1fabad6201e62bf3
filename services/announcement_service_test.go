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

type announcementFixture struct {
	service       AnnouncementService
	announcements *fakeAnnouncementRepo
	auditLogs     *fakeAuditLogRepo
}

func newAnnouncementFixture(t *testing.T, announcements *fakeAnnouncementRepo, users *fakeUserRepo) *announcementFixture {
	t.Helper()
	f := &announcementFixture{announcements: announcements, auditLogs: newFakeAuditLogRepo()}
	f.service = NewAnnouncementService(
		announcements,
		users,
		f.auditLogs,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func official(id int) *models.User {
	return &models.User{
		ID:           id,
		Email:        "official@example.com",
		FirstName:    "Pat",
		LastName:     "Doyle",
		Role:         models.RoleLeagueOfficial,
		PasswordHash: "secret-hash",
		IsActive:     true,
	}
}

func TestCreateAnnouncement(t *testing.T) {
	f := newAnnouncementFixture(t, newFakeAnnouncementRepo(), newFakeUserRepo(official(5)))

	announcement, err := f.service.Create(context.Background(), CreateAnnouncementInput{
		Title:     "  Finals this Saturday  ",
		Content:   "Doors open at noon.",
		IsUrgent:  true,
		CreatorID: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Finals this Saturday", announcement.Title)
	assert.True(t, announcement.IsUrgent)
	assert.True(t, announcement.IsActive)
	require.NotNil(t, announcement.Creator)
	assert.Equal(t, "Pat", announcement.Creator.FirstName)
	assert.Empty(t, announcement.Creator.PasswordHash)

	require.Len(t, f.auditLogs.entries, 1)
	assert.Equal(t, "ANNOUNCEMENT_CREATED", f.auditLogs.entries[0].Action)
	assert.Equal(t, "announcement", f.auditLogs.entries[0].Entity)
	require.NotNil(t, f.auditLogs.entries[0].UserID)
	assert.Equal(t, 5, *f.auditLogs.entries[0].UserID)
}

func TestCreateAnnouncementValidation(t *testing.T) {
	f := newAnnouncementFixture(t, newFakeAnnouncementRepo(), newFakeUserRepo())

	_, err := f.service.Create(context.Background(), CreateAnnouncementInput{Content: "body"})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = f.service.Create(context.Background(), CreateAnnouncementInput{Title: "heading", Content: "   "})
	require.ErrorIs(t, err, ErrTitleRequired)

	assert.Empty(t, f.auditLogs.entries)
}

func TestListAnnouncementsUrgentFirst(t *testing.T) {
	now := time.Now()
	f := newAnnouncementFixture(t, newFakeAnnouncementRepo(
		&models.Announcement{ID: 1, Title: "Old news", IsActive: true, CreatorID: 5, CreatedAt: now.Add(-48 * time.Hour)},
		&models.Announcement{ID: 2, Title: "Venue closed", IsUrgent: true, IsActive: true, CreatorID: 5, CreatedAt: now.Add(-24 * time.Hour)},
		&models.Announcement{ID: 3, Title: "Schedule posted", IsActive: true, CreatorID: 5, CreatedAt: now},
		&models.Announcement{ID: 4, Title: "Retired notice", IsActive: false, CreatorID: 5, CreatedAt: now},
	), newFakeUserRepo(official(5)))

	list, err := f.service.List(context.Background(), true, 0, 20)
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	assert.Equal(t, "Venue closed", list.Announcements[0].Title)
	assert.Equal(t, "Schedule posted", list.Announcements[1].Title)
	assert.Equal(t, "Old news", list.Announcements[2].Title)
	require.NotNil(t, list.Announcements[0].Creator)
	assert.Empty(t, list.Announcements[0].Creator.PasswordHash)

	list, err = f.service.List(context.Background(), false, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 4, list.Total)
}

func TestUpdateAnnouncementPermissions(t *testing.T) {
	f := newAnnouncementFixture(t, newFakeAnnouncementRepo(
		&models.Announcement{ID: 1, Title: "Week 3 venues", Content: "See board.", IsActive: true, CreatorID: 5},
	), newFakeUserRepo(official(5)))

	// Another official cannot edit someone else's announcement.
	_, err := f.service.Update(context.Background(), 1, UpdateAnnouncementInput{Title: strPtr("Edited")}, 6, models.RoleLeagueOfficial)
	require.ErrorIs(t, err, ErrForbiddenOperation)

	// The author can.
	updated, err := f.service.Update(context.Background(), 1, UpdateAnnouncementInput{Title: strPtr("Week 4 venues")}, 5, models.RoleLeagueOfficial)
	require.NoError(t, err)
	assert.Equal(t, "Week 4 venues", updated.Title)

	// So can an admin.
	inactive := false
	updated, err = f.service.Update(context.Background(), 1, UpdateAnnouncementInput{IsActive: &inactive}, 2, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = f.service.Update(context.Background(), 1, UpdateAnnouncementInput{Title: strPtr("  ")}, 5, models.RoleLeagueOfficial)
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = f.service.Update(context.Background(), 99, UpdateAnnouncementInput{}, 5, models.RoleAdmin)
	require.ErrorIs(t, err, ErrAnnouncementNotFound)

	require.Len(t, f.auditLogs.entries, 2)
	assert.Equal(t, "ANNOUNCEMENT_UPDATED", f.auditLogs.entries[0].Action)
}

func TestDeleteAnnouncementPermissions(t *testing.T) {
	f := newAnnouncementFixture(t, newFakeAnnouncementRepo(
		&models.Announcement{ID: 1, Title: "Signup open", IsActive: true, CreatorID: 5},
		&models.Announcement{ID: 2, Title: "Table felt replaced", IsActive: true, CreatorID: 5},
	), newFakeUserRepo(official(5)))

	err := f.service.Delete(context.Background(), 1, 6, models.RoleLeagueOfficial)
	require.ErrorIs(t, err, ErrForbiddenOperation)

	require.NoError(t, f.service.Delete(context.Background(), 1, 5, models.RoleLeagueOfficial))
	require.NoError(t, f.service.Delete(context.Background(), 2, 9, models.RoleAdmin))

	err = f.service.Delete(context.Background(), 1, 5, models.RoleAdmin)
	require.ErrorIs(t, err, ErrAnnouncementNotFound)

	require.Len(t, f.auditLogs.entries, 2)
	assert.Equal(t, "ANNOUNCEMENT_DELETED", f.auditLogs.entries[0].Action)
}
