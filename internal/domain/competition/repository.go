package competition

import "context"

// Repository describes competition persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Competition, error)
	GetByID(ctx context.Context, competitionID int) (Competition, bool, error)
	Upsert(ctx context.Context, competitions []Competition) error
}
