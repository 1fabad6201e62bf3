package models

import "time"

// Announcement is a league-wide notice shown to every member. Urgent
// announcements list ahead of the rest.
type Announcement struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	IsUrgent  bool      `json:"is_urgent" db:"is_urgent"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatorID int       `json:"creator_id" db:"creator_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Creator *User `json:"creator,omitempty" db:"-"`
}
