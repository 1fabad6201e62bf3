package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

type CreateAnnouncementInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsUrgent  bool   `json:"is_urgent"`
	CreatorID int    `json:"-"`
}

type UpdateAnnouncementInput struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsUrgent *bool   `json:"is_urgent,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type AnnouncementList struct {
	Announcements []*models.Announcement `json:"announcements"`
	Total         int                    `json:"total"`
}

// AnnouncementService manages league-wide notices. Any league manager
// can post one; editing and deleting are restricted to the author or
// an admin.
type AnnouncementService interface {
	Create(ctx context.Context, input CreateAnnouncementInput) (*models.Announcement, error)
	GetByID(ctx context.Context, id int) (*models.Announcement, error)
	List(ctx context.Context, activeOnly bool, offset, limit int) (*AnnouncementList, error)
	Update(ctx context.Context, id int, input UpdateAnnouncementInput, actorID int, actorRole models.UserRole) (*models.Announcement, error)
	Delete(ctx context.Context, id int, actorID int, actorRole models.UserRole) error
}

type announcementService struct {
	announcementRepo repositories.AnnouncementRepository
	userRepo         repositories.UserRepository
	auditLogRepo     repositories.AuditLogRepository
	logger           *slog.Logger
}

func NewAnnouncementService(
	announcementRepo repositories.AnnouncementRepository,
	userRepo repositories.UserRepository,
	auditLogRepo repositories.AuditLogRepository,
	logger *slog.Logger,
) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		auditLogRepo:     auditLogRepo,
		logger:           logger,
	}
}

func (s *announcementService) Create(ctx context.Context, input CreateAnnouncementInput) (*models.Announcement, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.Title == "" || input.Content == "" {
		return nil, ErrTitleRequired
	}

	announcement := &models.Announcement{
		Title:     input.Title,
		Content:   input.Content,
		IsUrgent:  input.IsUrgent,
		IsActive:  true,
		CreatorID: input.CreatorID,
	}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	s.audit(ctx, input.CreatorID, "ANNOUNCEMENT_CREATED", announcement.ID, map[string]interface{}{
		"title":     announcement.Title,
		"is_urgent": announcement.IsUrgent,
	})

	s.hydrateCreator(ctx, announcement)
	return announcement, nil
}

func (s *announcementService) GetByID(ctx context.Context, id int) (*models.Announcement, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	s.hydrateCreator(ctx, announcement)
	return announcement, nil
}

func (s *announcementService) List(ctx context.Context, activeOnly bool, offset, limit int) (*AnnouncementList, error) {
	announcements, total, err := s.announcementRepo.List(ctx, activeOnly, offset, limit)
	if err != nil {
		return nil, err
	}
	for _, announcement := range announcements {
		s.hydrateCreator(ctx, announcement)
	}
	return &AnnouncementList{Announcements: announcements, Total: total}, nil
}

func (s *announcementService) Update(ctx context.Context, id int, input UpdateAnnouncementInput, actorID int, actorRole models.UserRole) (*models.Announcement, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if announcement.CreatorID != actorID && actorRole != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		announcement.Title = title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, ErrTitleRequired
		}
		announcement.Content = content
	}
	if input.IsUrgent != nil {
		announcement.IsUrgent = *input.IsUrgent
	}
	if input.IsActive != nil {
		announcement.IsActive = *input.IsActive
	}

	if err := s.announcementRepo.Update(ctx, announcement); err != nil {
		return nil, mapRepoNotFound(err)
	}

	s.audit(ctx, actorID, "ANNOUNCEMENT_UPDATED", announcement.ID, map[string]interface{}{
		"title":     announcement.Title,
		"is_active": announcement.IsActive,
	})

	s.hydrateCreator(ctx, announcement)
	return announcement, nil
}

func (s *announcementService) Delete(ctx context.Context, id int, actorID int, actorRole models.UserRole) error {
	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepoNotFound(err)
	}
	if announcement.CreatorID != actorID && actorRole != models.RoleAdmin {
		return ErrForbiddenOperation
	}

	if err := s.announcementRepo.Delete(ctx, id); err != nil {
		return mapRepoNotFound(err)
	}

	s.audit(ctx, actorID, "ANNOUNCEMENT_DELETED", id, map[string]interface{}{
		"title": announcement.Title,
	})
	return nil
}

func (s *announcementService) hydrateCreator(ctx context.Context, announcement *models.Announcement) {
	creator, err := s.userRepo.GetByID(ctx, announcement.CreatorID)
	if err != nil {
		return
	}
	creator.PasswordHash = ""
	announcement.Creator = creator
}

func (s *announcementService) audit(ctx context.Context, actorID int, action string, announcementID int, details interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = nil
	}
	entry := &models.AuditLog{
		Action:   action,
		Entity:   "announcement",
		EntityID: &announcementID,
		Details:  payload,
	}
	if actorID > 0 {
		entry.UserID = &actorID
	}
	if err := s.auditLogRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", slog.String("action", action), slog.Any("error", err))
	}
}
