package league

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientTeams is returned when fewer than two teams are
// supplied for schedule generation.
var ErrInsufficientTeams = errors.New("need at least 2 teams to generate schedule")

// byeTeamID marks the synthetic placeholder appended when the team
// count is odd. Pairings involving it produce no fixture.
const byeTeamID = 0

// FixtureParams describes one schedule generation run.
type FixtureParams struct {
	TeamIDs      []int
	StartDate    time.Time
	WeeksCount   int
	MatchTime    string
	VenueIDs     []int
	RotateVenues bool
}

// Fixture is a single generated pairing. The caller persists fixtures
// as scheduled matches with no score.
type Fixture struct {
	HomeTeamID int
	AwayTeamID int
	VenueID    *int
	Date       time.Time
	Time       string
	Week       int
}

// GenerateRoundRobin builds a fixture list with the circle method:
// one synthetic bye slot if the team count is odd, a fixed pivot, and
// a rotation of everything else after each round. The run covers the
// minimal full cycle (M-1 rounds for M working slots) or the requested
// week count, whichever is smaller; weeks beyond a full cycle are not
// generated. Week numbers start at 1 and the date advances seven days
// per round. Venue assignment walks the venue list with a single
// counter shared across the whole run when rotation is on, otherwise
// every fixture gets the first venue (or none).
func GenerateRoundRobin(params FixtureParams) ([]Fixture, error) {
	if len(params.TeamIDs) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrInsufficientTeams, len(params.TeamIDs))
	}

	slots := make([]int, len(params.TeamIDs))
	copy(slots, params.TeamIDs)
	if len(slots)%2 == 1 {
		slots = append(slots, byeTeamID)
	}

	numTeams := len(slots)
	numRounds := numTeams - 1
	matchesPerRound := numTeams / 2

	weeks := params.WeeksCount
	if weeks <= 0 {
		weeks = numRounds
	}

	matchTime := params.MatchTime
	if matchTime == "" {
		matchTime = "7:00 PM"
	}

	fixtures := make([]Fixture, 0, numRounds*matchesPerRound)
	currentDate := params.StartDate
	venueIndex := 0
	week := 1

	for round := 0; round < numRounds && week <= weeks; round++ {
		for pair := 0; pair < matchesPerRound; pair++ {
			home := (round + pair) % (numTeams - 1)
			away := (numTeams - 1 - pair + round) % (numTeams - 1)
			if pair == 0 {
				away = numTeams - 1
			}

			homeID := slots[home]
			awayID := slots[away]
			if homeID == byeTeamID || awayID == byeTeamID {
				continue
			}

			f := Fixture{
				HomeTeamID: homeID,
				AwayTeamID: awayID,
				Date:       currentDate,
				Time:       matchTime,
				Week:       week,
			}
			if len(params.VenueIDs) > 0 {
				venueID := params.VenueIDs[venueIndex%len(params.VenueIDs)]
				f.VenueID = &venueID
				if params.RotateVenues {
					venueIndex++
				}
			}
			fixtures = append(fixtures, f)
		}

		currentDate = currentDate.AddDate(0, 0, 7)
		week++
	}

	return fixtures, nil
}

// FullCycleRounds returns the number of rounds in one complete
// round-robin cycle for n teams.
func FullCycleRounds(n int) int {
	if n%2 == 1 {
		return n
	}
	return n - 1
}
