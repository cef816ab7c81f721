package synclog

import "context"

// Repository exposes the sync run audit trail.
type Repository interface {
	Create(ctx context.Context, syncType string) (Log, error)
	GetByID(ctx context.Context, id int64) (Log, bool, error)
	ListRecent(ctx context.Context, limit int) ([]Log, error)
	MarkCompleted(ctx context.Context, id int64, recordsProcessed int, partialFailures []string) error
	MarkFailed(ctx context.Context, id int64, recordsProcessed int, errorMessage string, partialFailures []string) error
}
