package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "SCHEDULED"
	MatchStatusInProgress MatchStatus = "IN_PROGRESS"
	MatchStatusCompleted  MatchStatus = "COMPLETED"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusInProgress, MatchStatusCompleted:
		return true
	}
	return false
}

type Match struct {
	ID         int         `json:"id" db:"id"`
	SeasonID   int         `json:"season_id" db:"season_id"`
	HomeTeamID int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int         `json:"away_team_id" db:"away_team_id"`
	VenueID    *int        `json:"venue_id,omitempty" db:"venue_id"`
	Date       time.Time   `json:"date" db:"date"`
	Time       string      `json:"time" db:"time"`
	Week       int         `json:"week" db:"week"`
	Status     MatchStatus `json:"status" db:"status"`
	HomeScore  *int        `json:"home_score,omitempty" db:"home_score"`
	AwayScore  *int        `json:"away_score,omitempty" db:"away_score"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`

	HomeTeam *Team          `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team          `json:"away_team,omitempty" db:"-"`
	Venue    *Venue         `json:"venue,omitempty" db:"-"`
	Season   *Season        `json:"season,omitempty" db:"-"`
	Results  []*MatchResult `json:"results,omitempty" db:"-"`
}

// HomeWon reports whether the home team won. Valid only for a
// completed match with both scores present.
func (m *Match) HomeWon() bool {
	return m.HomeScore != nil && m.AwayScore != nil && *m.HomeScore > *m.AwayScore
}

// MatchResult records one individual game outcome within a match.
// Unique on (match, player, game number).
type MatchResult struct {
	ID         int       `json:"id" db:"id"`
	MatchID    int       `json:"match_id" db:"match_id"`
	PlayerID   int       `json:"player_id" db:"player_id"`
	GameNumber int       `json:"game_number" db:"game_number"`
	Won        bool      `json:"won" db:"won"`
	IsRunout   bool      `json:"is_runout" db:"is_runout"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	Player *User `json:"player,omitempty" db:"-"`
}
