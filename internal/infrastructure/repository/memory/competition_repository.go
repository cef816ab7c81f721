package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bagaskoro/goalpoll/internal/domain/competition"
)

type CompetitionRepository struct {
	mu   sync.RWMutex
	byID map[int]competition.Competition
}

func NewCompetitionRepository(items []competition.Competition) *CompetitionRepository {
	byID := make(map[int]competition.Competition, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	return &CompetitionRepository{byID: byID}
}

func (r *CompetitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Competition, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, competitionID int) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[competitionID]
	return item, ok, nil
}

func (r *CompetitionRepository) Upsert(_ context.Context, items []competition.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		r.byID[item.ID] = item
	}

	return nil
}
