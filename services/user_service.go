package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

type CreateUserInput struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     *string         `json:"phone,omitempty"`
	Handicap  int             `json:"handicap"`
	Role      models.UserRole `json:"role"`
	TeamID    *int            `json:"team_id,omitempty"`
}

// UpdateUserInput uses pointers so absent fields are left untouched.
type UpdateUserInput struct {
	Email     *string          `json:"email,omitempty"`
	FirstName *string          `json:"first_name,omitempty"`
	LastName  *string          `json:"last_name,omitempty"`
	Phone     *string          `json:"phone,omitempty"`
	Handicap  *int             `json:"handicap,omitempty"`
	Role      *models.UserRole `json:"role,omitempty"`
	TeamID    *int             `json:"team_id,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

// UserService covers profile management plus the admin-only user
// operations. Role changes and deactivation are restricted to league
// managers by the callers.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, teamID *int, isActive *bool) ([]*models.User, error)
	Update(ctx context.Context, id int, input UpdateUserInput) (*models.User, error)
	ResetPassword(ctx context.Context, id int, newPassword string) error
	Deactivate(ctx context.Context, id int) (*models.User, error)
	Delete(ctx context.Context, id int) error
}

type userService struct {
	userRepo repositories.UserRepository
	teamRepo repositories.TeamRepository
}

func NewUserService(userRepo repositories.UserRepository, teamRepo repositories.TeamRepository) UserService {
	return &userService{userRepo: userRepo, teamRepo: teamRepo}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.FirstName == "" || input.LastName == "" {
		return nil, fmt.Errorf("%w: email, first name and last name are required", ErrValidationFailed)
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
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

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        normalizePhonePtr(input.Phone),
		Handicap:     input.Handicap,
		Role:         input.Role,
		TeamID:       input.TeamID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		return nil, mapRepoNotFound(err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	user.PasswordHash = ""
	if user.TeamID != nil {
		if team, teamErr := s.teamRepo.GetByID(ctx, *user.TeamID); teamErr == nil {
			user.Team = team
		}
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, teamID *int, isActive *bool) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx, teamID, isActive)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		user.PasswordHash = ""
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id int, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	if input.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*input.Email))
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = normalizePhonePtr(input.Phone)
	}
	if input.Handicap != nil {
		user.Handicap = *input.Handicap
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.TeamID != nil {
		if *input.TeamID > 0 {
			if _, teamErr := s.teamRepo.GetByID(ctx, *input.TeamID); teamErr != nil {
				return nil, mapRepoNotFound(teamErr)
			}
			user.TeamID = input.TeamID
		} else {
			user.TeamID = nil
		}
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, mapRepoNotFound(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ResetPassword(ctx context.Context, id int, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return mapRepoNotFound(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePasswordHash(ctx, id, string(hash))
}

// Deactivate keeps the row (it is referenced by match results) but
// blocks logins.
func (s *userService) Deactivate(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	user.IsActive = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, mapRepoNotFound(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int) error {
	return mapRepoNotFound(s.userRepo.Delete(ctx, id))
}

// normalizePhonePtr strips separators and prefixes a bare 10-digit US
// number with +1, leaving anything else as entered.
func normalizePhonePtr(phone *string) *string {
	if phone == nil {
		return nil
	}
	normalized := NormalizePhone(*phone)
	if normalized == "" {
		return nil
	}
	return &normalized
}

// NormalizePhone canonicalizes a phone number to E.164-ish form so
// invite lookups by phone match regardless of formatting.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case d == "":
		return ""
	case len(d) == 10:
		return "+1" + d
	default:
		return "+" + d
	}
}
