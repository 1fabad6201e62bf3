package models

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusAccepted InviteStatus = "ACCEPTED"
	InviteStatusExpired  InviteStatus = "EXPIRED"
	InviteStatusRevoked  InviteStatus = "REVOKED"
)

// Invite is an SMS-delivered registration invitation. Registration is
// invite-only: accepting a pending, unexpired invite creates the user.
type Invite struct {
	ID          int          `json:"id" db:"id"`
	Phone       string       `json:"phone" db:"phone"`
	FirstName   *string      `json:"first_name,omitempty" db:"first_name"`
	LastName    *string      `json:"last_name,omitempty" db:"last_name"`
	TeamID      *int         `json:"team_id,omitempty" db:"team_id"`
	Role        UserRole     `json:"role" db:"role"`
	Token       string       `json:"-" db:"token"`
	Status      InviteStatus `json:"status" db:"status"`
	ExpiresAt   time.Time    `json:"expires_at" db:"expires_at"`
	CreatedByID int          `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`

	Team      *Team `json:"team,omitempty" db:"-"`
	CreatedBy *User `json:"created_by,omitempty" db:"-"`
}

func (i *Invite) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
