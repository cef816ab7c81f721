package standing

import (
	"fmt"
	"time"
)

// Standing is one league table row for a team within a competition.
// Standings are a full-replace snapshot per competition, never an
// incremental merge.
type Standing struct {
	CompetitionID  int
	TeamID         int
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	Points         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Form           string
	LastUpdatedAt  *time.Time
}

func (s Standing) Validate() error {
	if s.CompetitionID <= 0 {
		return fmt.Errorf("standing competition id is required")
	}
	if s.TeamID <= 0 {
		return fmt.Errorf("standing team id is required")
	}
	if s.Position <= 0 {
		return fmt.Errorf("standing position is required")
	}

	return nil
}
