package synclog

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Sync types accepted by the orchestrator. TypeBrazilStandings is an
// alias for a standings run scoped to the configured Brazilian
// competition.
const (
	TypeAll             = "all"
	TypeCompetitions    = "competitions"
	TypeTeams           = "teams"
	TypeStandings       = "standings"
	TypeFixtures        = "fixtures"
	TypeHeadToHead      = "h2h"
	TypeTeamForm        = "team-form"
	TypeBrazilStandings = "brazil-standings"
)

func ValidType(syncType string) bool {
	switch syncType {
	case TypeAll, TypeCompetitions, TypeTeams, TypeStandings, TypeFixtures,
		TypeHeadToHead, TypeTeamForm, TypeBrazilStandings:
		return true
	default:
		return false
	}
}

// Log is one orchestrator run. Rows are append-only; the only mutation
// after creation is the close-out to completed or failed.
type Log struct {
	ID               int64
	SyncType         string
	Status           Status
	StartedAt        time.Time
	CompletedAt      *time.Time
	RecordsProcessed int
	ErrorMessage     string
	PartialFailures  []string
}

func (l Log) Validate() error {
	if !ValidType(l.SyncType) {
		return fmt.Errorf("unknown sync type %q", l.SyncType)
	}

	return nil
}
