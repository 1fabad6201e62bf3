package models

import "time"

type Season struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     time.Time  `json:"end_date" db:"end_date"`
	PlayoffDate *time.Time `json:"playoff_date,omitempty" db:"playoff_date"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	Teams   []*Team  `json:"teams,omitempty" db:"-"`
	Matches []*Match `json:"matches,omitempty" db:"-"`
}

// SeasonStats is the aggregate view returned by the season stats endpoint.
type SeasonStats struct {
	TotalTeams        int     `json:"total_teams"`
	TotalMatches      int     `json:"total_matches"`
	CompletedMatches  int     `json:"completed_matches"`
	RemainingMatches  int     `json:"remaining_matches"`
	CompletionRate    float64 `json:"completion_rate"`
	TotalPlayers      int     `json:"total_players"`
	TotalWeeks        int     `json:"total_weeks"`
	CurrentWeek       int     `json:"current_week"`
}
