package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bagaskoro/goalpoll/internal/domain/headtohead"
)

type HeadToHeadRepository struct {
	mu     sync.RWMutex
	byPair map[headtohead.Pair]map[int]headtohead.Match
}

func NewHeadToHeadRepository(items []headtohead.Match) *HeadToHeadRepository {
	r := &HeadToHeadRepository{byPair: make(map[headtohead.Pair]map[int]headtohead.Match)}
	_ = r.Upsert(context.Background(), items)
	return r
}

func (r *HeadToHeadRepository) ListByPair(_ context.Context, pair headtohead.Pair) ([]headtohead.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.byPair[pair]
	out := make([]headtohead.Match, 0, len(matches))
	for _, item := range matches {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KickoffAt.After(out[j].KickoffAt) })

	return out, nil
}

func (r *HeadToHeadRepository) Upsert(_ context.Context, items []headtohead.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			continue
		}
		matches := r.byPair[item.Pair]
		if matches == nil {
			matches = make(map[int]headtohead.Match)
			r.byPair[item.Pair] = matches
		}
		matches[item.MatchID] = item
	}

	return nil
}

// PairCount reports how many distinct canonical pairs are stored; used
// by tests asserting direction independence.
func (r *HeadToHeadRepository) PairCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byPair)
}
