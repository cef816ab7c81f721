package fixture

import "context"

// Repository exposes fixture persistence.
type Repository interface {
	ListByCompetition(ctx context.Context, competitionID int) ([]Fixture, error)
	ListByCompetitionMatchday(ctx context.Context, competitionID, matchday int) ([]Fixture, error)
	Upsert(ctx context.Context, fixtures []Fixture) error
}
