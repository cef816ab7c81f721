package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusSuspended = "SUSPENDED"
	StatusCancelled = "CANCELLED"
)

const (
	WinnerHomeTeam = "HOME_TEAM"
	WinnerAwayTeam = "AWAY_TEAM"
	WinnerDraw     = "DRAW"
)

// Fixture is one match of a competition. Fixtures accumulate across the
// season and are upserted by provider id, never bulk-deleted.
type Fixture struct {
	ID            int
	CompetitionID int
	SeasonID      *int
	Matchday      int
	Stage         string
	Group         string
	HomeTeamID    int
	AwayTeamID    int
	KickoffAt     time.Time
	Status        string
	Minute        *int
	InjuryTime    *int
	Attendance    *int
	HomeScore     *int
	AwayScore     *int
	Winner        string
	Venue         string
	Referee       string
	LastUpdatedAt *time.Time
}

func (f Fixture) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("fixture id is required")
	}
	if f.CompetitionID <= 0 {
		return fmt.Errorf("fixture competition id is required")
	}
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture team ids are required")
	}

	return nil
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusInPlay, StatusPaused, "LIVE":
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}
