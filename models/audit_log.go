package models

import (
	"encoding/json"
	"time"
)

// AuditLog records an administrative action. Written by route handlers
// after the corresponding service call succeeds.
type AuditLog struct {
	ID        int             `json:"id" db:"id"`
	UserID    *int            `json:"user_id,omitempty" db:"user_id"`
	Action    string          `json:"action" db:"action"`
	Entity    string          `json:"entity" db:"entity"`
	EntityID  *int            `json:"entity_id,omitempty" db:"entity_id"`
	Details   json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress *string         `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
