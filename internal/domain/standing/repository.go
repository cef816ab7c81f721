package standing

import "context"

// Repository exposes standings persistence. ReplaceByCompetition must be
// atomic from the reader's point of view.
type Repository interface {
	ListByCompetition(ctx context.Context, competitionID int) ([]Standing, error)
	ReplaceByCompetition(ctx context.Context, competitionID int, standings []Standing) error
	UpdateForm(ctx context.Context, competitionID, teamID int, form string) error
}
