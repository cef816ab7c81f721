package headtohead

import "context"

// Repository exposes head-to-head persistence.
type Repository interface {
	ListByPair(ctx context.Context, pair Pair) ([]Match, error)
	Upsert(ctx context.Context, matches []Match) error
}
