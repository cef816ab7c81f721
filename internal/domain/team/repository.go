package team

import "context"

// Repository describes team persistence needs from use cases.
// Competition membership is derived from standings and fixtures rather
// than stored on the team row.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	ListByCompetition(ctx context.Context, competitionID int) ([]Team, error)
	GetByID(ctx context.Context, teamID int) (Team, bool, error)
	Upsert(ctx context.Context, teams []Team) error
}
