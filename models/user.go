package models

import "time"

type UserRole string

const (
	RoleAdmin          UserRole = "ADMIN"
	RoleLeagueOfficial UserRole = "LEAGUE_OFFICIAL"
	RoleCaptain        UserRole = "CAPTAIN"
	RolePlayer         UserRole = "PLAYER"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleLeagueOfficial, RoleCaptain, RolePlayer:
		return true
	}
	return false
}

// CanManageLeague reports whether the role may perform league
// administration (scheduling, season management, invites).
func (r UserRole) CanManageLeague() bool {
	return r == RoleAdmin || r == RoleLeagueOfficial
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Handicap     int       `json:"handicap" db:"handicap"`
	Role         UserRole  `json:"role" db:"role"`
	TeamID       *int      `json:"team_id,omitempty" db:"team_id"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
