package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
)

type FixtureRepository struct {
	mu   sync.RWMutex
	byID map[int]fixture.Fixture
}

func NewFixtureRepository(items []fixture.Fixture) *FixtureRepository {
	byID := make(map[int]fixture.Fixture, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	return &FixtureRepository{byID: byID}
}

func (r *FixtureRepository) ListByCompetition(_ context.Context, competitionID int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []fixture.Fixture
	for _, item := range r.byID {
		if item.CompetitionID == competitionID {
			out = append(out, item)
		}
	}
	sortFixtures(out)

	return out, nil
}

func (r *FixtureRepository) ListByCompetitionMatchday(_ context.Context, competitionID, matchday int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []fixture.Fixture
	for _, item := range r.byID {
		if item.CompetitionID == competitionID && item.Matchday == matchday {
			out = append(out, item)
		}
	}
	sortFixtures(out)

	return out, nil
}

func (r *FixtureRepository) Upsert(_ context.Context, items []fixture.Fixture) error {
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

// Len reports the stored row count; used by tests asserting upsert
// idempotency.
func (r *FixtureRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

func sortFixtures(items []fixture.Fixture) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].KickoffAt.Before(items[j].KickoffAt)
	})
}
