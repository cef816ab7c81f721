package headtohead

import (
	"fmt"
	"time"
)

// Pair identifies two teams in canonical low-id-first order, so a pair
// is stored once regardless of fetch direction.
type Pair struct {
	TeamLowID  int
	TeamHighID int
}

func NewPair(teamA, teamB int) Pair {
	if teamA > teamB {
		teamA, teamB = teamB, teamA
	}
	return Pair{TeamLowID: teamA, TeamHighID: teamB}
}

func (p Pair) Validate() error {
	if p.TeamLowID <= 0 || p.TeamHighID <= 0 {
		return fmt.Errorf("head-to-head pair team ids are required")
	}
	if p.TeamLowID >= p.TeamHighID {
		return fmt.Errorf("head-to-head pair must be low id first and distinct")
	}

	return nil
}

// Contains reports whether the pair covers exactly the two given teams.
func (p Pair) Contains(teamA, teamB int) bool {
	return NewPair(teamA, teamB) == p
}

// Match is one historical match between the pair's two teams. Home and
// away ids record the actual roles for that specific match.
type Match struct {
	Pair          Pair
	MatchID       int
	CompetitionID int
	SeasonYear    int
	HomeTeamID    int
	AwayTeamID    int
	KickoffAt     time.Time
	HomeScore     *int
	AwayScore     *int
	Status        string
	Winner        string
	Venue         string
	LastUpdatedAt *time.Time
}

func (m Match) Validate() error {
	if err := m.Pair.Validate(); err != nil {
		return err
	}
	if m.MatchID <= 0 {
		return fmt.Errorf("head-to-head match id is required")
	}
	if !m.Pair.Contains(m.HomeTeamID, m.AwayTeamID) {
		return fmt.Errorf("head-to-head match teams do not form the stored pair")
	}

	return nil
}
