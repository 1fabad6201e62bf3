package models

import "time"

type Team struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	SeasonID    int       `json:"season_id" db:"season_id"`
	CaptainID   *int      `json:"captain_id,omitempty" db:"captain_id"`
	CoCaptainID *int      `json:"co_captain_id,omitempty" db:"co_captain_id"`
	HomeVenueID *int      `json:"home_venue_id,omitempty" db:"home_venue_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Season    *Season `json:"season,omitempty" db:"-"`
	Captain   *User   `json:"captain,omitempty" db:"-"`
	CoCaptain *User   `json:"co_captain,omitempty" db:"-"`
	Members   []User  `json:"members,omitempty" db:"-"`
}

// HasCaptain reports whether userID is the team's captain or co-captain.
func (t *Team) HasCaptain(userID int) bool {
	if t.CaptainID != nil && *t.CaptainID == userID {
		return true
	}
	return t.CoCaptainID != nil && *t.CoCaptainID == userID
}
