package services

import "errors"

// Sentinel errors shared across services and mapped to HTTP statuses
// in the handlers package.
var (
	// Not found
	ErrNotFound             = errors.New("requested resource not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrSeasonNotFound       = errors.New("season not found")
	ErrVenueNotFound        = errors.New("venue not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrStandingNotFound     = errors.New("standing not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrNoActiveSeason       = errors.New("no active season found")
	ErrAnnouncementNotFound = errors.New("announcement not found")

	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrInsufficientTeams    = errors.New("need at least 2 teams to generate schedule")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrSeasonNameRequired   = errors.New("season name is required")
	ErrVenueNameRequired    = errors.New("venue name is required")
	ErrTitleRequired        = errors.New("title and content are required")
	ErrSeasonInvalidDates   = errors.New("season end date must be after start date")
	ErrSameTeamMatch        = errors.New("home and away teams must be different")
	ErrNegativeScore        = errors.New("scores must be non-negative")
	ErrTiedScore            = errors.New("match scores cannot be equal")
	ErrMatchNotCompleted    = errors.New("match has no recorded final score")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInviteExpired        = errors.New("invite has expired")
	ErrInviteNotPending     = errors.New("invite is no longer pending")
	ErrDeleteActiveSeason   = errors.New("cannot delete the active season")
	ErrClearNotConfirmed    = errors.New("schedule clear requires explicit confirmation")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidMatchStatus   = errors.New("invalid match status")
	ErrPhoneRequired        = errors.New("phone number is required")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrTeamNameConflict  = errors.New("team name is already in use")
	ErrUserPhoneConflict = errors.New("a user with this phone number already exists")

	// Authentication and authorization
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrNotTeamCaptain       = errors.New("only a captain of one of the teams can perform this action")
)
