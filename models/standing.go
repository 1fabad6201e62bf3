package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type StreakDirection uint8

const (
	StreakNone StreakDirection = iota
	StreakWin
	StreakLoss
)

// Streak holds a team's current consecutive run of results. The zero
// value means no completed matches yet. It is persisted and rendered
// as the compact token form ("W3", "L1").
type Streak struct {
	Direction StreakDirection
	Length    uint
}

// Apply returns the streak after one more result: same direction
// extends the run, anything else starts a fresh run of length one.
func (s Streak) Apply(won bool) Streak {
	dir := StreakLoss
	if won {
		dir = StreakWin
	}
	if s.Direction == dir {
		return Streak{Direction: dir, Length: s.Length + 1}
	}
	return Streak{Direction: dir, Length: 1}
}

func (s Streak) Token() string {
	switch s.Direction {
	case StreakWin:
		return fmt.Sprintf("W%d", s.Length)
	case StreakLoss:
		return fmt.Sprintf("L%d", s.Length)
	default:
		return "0"
	}
}

// ParseStreak parses the token form. Empty and "0" both mean no streak.
func ParseStreak(token string) (Streak, error) {
	if token == "" || token == "0" {
		return Streak{}, nil
	}
	var dir StreakDirection
	switch token[0] {
	case 'W':
		dir = StreakWin
	case 'L':
		dir = StreakLoss
	default:
		return Streak{}, fmt.Errorf("invalid streak token %q", token)
	}
	n, err := strconv.ParseUint(token[1:], 10, 32)
	if err != nil || n == 0 {
		return Streak{}, fmt.Errorf("invalid streak token %q", token)
	}
	return Streak{Direction: dir, Length: uint(n)}, nil
}

func (s Streak) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Token())
}

func (s *Streak) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	parsed, err := ParseStreak(token)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Standing is one team's season record. Unique on team; rank is a
// dense 1-based ordering within the season.
type Standing struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	SeasonID  int       `json:"season_id" db:"season_id"`
	Wins      int       `json:"wins" db:"wins"`
	Losses    int       `json:"losses" db:"losses"`
	Streak    Streak    `json:"streak" db:"streak"`
	Rank      *int      `json:"rank,omitempty" db:"rank"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// WinPercentage is wins over total games, zero when no games played.
func (s *Standing) WinPercentage() float64 {
	total := s.Wins + s.Losses
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total)
}
