package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

const inviteTTL = 7 * 24 * time.Hour

type CreateInviteInput struct {
	Phone     string          `json:"phone"`
	FirstName *string         `json:"first_name,omitempty"`
	LastName  *string         `json:"last_name,omitempty"`
	TeamID    *int            `json:"team_id,omitempty"`
	Role      models.UserRole `json:"role"`
	CreatorID int             `json:"-"`
}

// AcceptInviteInput completes invite-only registration. Names default
// to the values on the invite when omitted.
type AcceptInviteInput struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type InviteList struct {
	Invites []*models.Invite `json:"invites"`
	Total   int              `json:"total"`
}

// InviteService owns the invite-only onboarding flow: admins send SMS
// invites, recipients follow the link and accept to create their
// account.
type InviteService interface {
	Create(ctx context.Context, input CreateInviteInput) (*models.Invite, error)
	GetByToken(ctx context.Context, token string) (*models.Invite, error)
	List(ctx context.Context, status *models.InviteStatus, offset, limit int) (*InviteList, error)
	Resend(ctx context.Context, id int) (*models.Invite, error)
	Revoke(ctx context.Context, id int) error
	Accept(ctx context.Context, input AcceptInviteInput) (*models.User, error)
}

type inviteService struct {
	inviteRepo repositories.InviteRepository
	userRepo   repositories.UserRepository
	teamRepo   repositories.TeamRepository
	sms        SMSSender
	publicURL  string
	logger     *slog.Logger
}

func NewInviteService(
	inviteRepo repositories.InviteRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	sms SMSSender,
	publicURL string,
	logger *slog.Logger,
) InviteService {
	return &inviteService{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		sms:        sms,
		publicURL:  strings.TrimRight(publicURL, "/"),
		logger:     logger,
	}
}

func (s *inviteService) Create(ctx context.Context, input CreateInviteInput) (*models.Invite, error) {
	phone := NormalizePhone(input.Phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	if input.Role == "" {
		input.Role = models.RolePlayer
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if input.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *input.TeamID); err != nil {
			return nil, mapRepoNotFound(err)
		}
	}
	if existing, err := s.inviteRepo.GetPendingByPhone(ctx, phone); err == nil && !existing.Expired(time.Now()) {
		return nil, fmt.Errorf("%w: a pending invite already exists for %s", ErrValidationFailed, phone)
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	invite := &models.Invite{
		Phone:       phone,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		TeamID:      input.TeamID,
		Role:        input.Role,
		Token:       token,
		Status:      models.InviteStatusPending,
		ExpiresAt:   time.Now().Add(inviteTTL),
		CreatedByID: input.CreatorID,
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}

	if err := s.sms.Send(ctx, phone, s.inviteMessage(invite)); err != nil {
		// The invite row stays usable; the admin can resend.
		s.logger.Warn("failed to send invite sms", slog.Int("invite_id", invite.ID), slog.Any("error", err))
	}

	return invite, nil
}

func (s *inviteService) inviteMessage(invite *models.Invite) string {
	name := "there"
	if invite.FirstName != nil && *invite.FirstName != "" {
		name = *invite.FirstName
	}
	return fmt.Sprintf("Hi %s! You've been invited to join the pool league. Register here: %s/register?token=%s", name, s.publicURL, invite.Token)
}

func (s *inviteService) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if invite.Status != models.InviteStatusPending {
		return nil, ErrInviteNotPending
	}
	if invite.Expired(time.Now()) {
		return nil, ErrInviteExpired
	}
	if invite.TeamID != nil {
		if team, teamErr := s.teamRepo.GetByID(ctx, *invite.TeamID); teamErr == nil {
			invite.Team = team
		}
	}
	return invite, nil
}

func (s *inviteService) List(ctx context.Context, status *models.InviteStatus, offset, limit int) (*InviteList, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	invites, total, err := s.inviteRepo.List(ctx, status, offset, limit)
	if err != nil {
		return nil, err
	}
	return &InviteList{Invites: invites, Total: total}, nil
}

// Resend rotates the token, extends the expiry and sends a fresh SMS.
func (s *inviteService) Resend(ctx context.Context, id int) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if invite.Status != models.InviteStatusPending && invite.Status != models.InviteStatusExpired {
		return nil, ErrInviteNotPending
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(inviteTTL)
	if err := s.inviteRepo.UpdateToken(ctx, id, token, expiresAt); err != nil {
		return nil, mapRepoNotFound(err)
	}
	if invite.Status == models.InviteStatusExpired {
		if err := s.inviteRepo.UpdateStatus(ctx, nil, id, models.InviteStatusPending); err != nil {
			return nil, mapRepoNotFound(err)
		}
		invite.Status = models.InviteStatusPending
	}
	invite.Token = token
	invite.ExpiresAt = expiresAt

	if err := s.sms.Send(ctx, invite.Phone, s.inviteMessage(invite)); err != nil {
		s.logger.Warn("failed to resend invite sms", slog.Int("invite_id", id), slog.Any("error", err))
	}
	return invite, nil
}

func (s *inviteService) Revoke(ctx context.Context, id int) error {
	invite, err := s.inviteRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepoNotFound(err)
	}
	if invite.Status != models.InviteStatusPending {
		return ErrInviteNotPending
	}
	return mapRepoNotFound(s.inviteRepo.UpdateStatus(ctx, nil, id, models.InviteStatusRevoked))
}

// Accept validates the token and creates the account with the role and
// team the invite carries, then marks the invite accepted.
func (s *inviteService) Accept(ctx context.Context, input AcceptInviteInput) (*models.User, error) {
	invite, err := s.GetByToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidationFailed)
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	firstName := input.FirstName
	if firstName == "" && invite.FirstName != nil {
		firstName = *invite.FirstName
	}
	lastName := input.LastName
	if lastName == "" && invite.LastName != nil {
		lastName = *invite.LastName
	}
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidationFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	phone := invite.Phone
	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        &phone,
		Role:         invite.Role,
		TeamID:       invite.TeamID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		return nil, mapRepoNotFound(err)
	}

	if err := s.inviteRepo.UpdateStatus(ctx, nil, invite.ID, models.InviteStatusAccepted); err != nil {
		s.logger.Warn("failed to mark invite accepted", slog.Int("invite_id", invite.ID), slog.Any("error", err))
	}

	s.logger.Info("invite accepted", slog.Int("invite_id", invite.ID), slog.Int("user_id", user.ID))
	user.PasswordHash = ""
	return user, nil
}

func generateInviteToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
