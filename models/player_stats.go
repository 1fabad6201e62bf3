package models

import "time"

// PlayerStats aggregates one player's individual game record for a
// season. Unique on (player, season). Rows are created lazily the
// first time a result is recorded.
type PlayerStats struct {
	ID        int       `json:"id" db:"id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	SeasonID  int       `json:"season_id" db:"season_id"`
	Wins      int       `json:"wins" db:"wins"`
	Losses    int       `json:"losses" db:"losses"`
	Runouts   int       `json:"runouts" db:"runouts"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Player *User `json:"player,omitempty" db:"-"`
}

func (p *PlayerStats) WinPercentage() float64 {
	total := p.Wins + p.Losses
	if total == 0 {
		return 0
	}
	return float64(p.Wins) / float64(total)
}
