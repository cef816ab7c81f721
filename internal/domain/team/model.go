package team

import (
	"fmt"
	"time"
)

// Team is a real football club known to the cache. A team may appear
// under multiple competitions; the row is shared and last write wins.
type Team struct {
	ID               int
	Name             string
	ShortName        string
	TLA              string
	CrestURL         string
	Address          string
	Website          string
	Founded          *int
	ClubColors       string
	Venue            string
	CoachName        string
	CoachNationality string
	LeagueRank       *int
	LastUpdatedAt    *time.Time
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
