package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bagaskoro/goalpoll/internal/domain/team"
)

type TeamRepository struct {
	mu            sync.RWMutex
	byID          map[int]team.Team
	byCompetition map[int][]int
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	byID := make(map[int]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
	}

	return &TeamRepository{
		byID:          byID,
		byCompetition: make(map[int][]int),
	}
}

// SetCompetitionTeams seeds competition membership, which the SQL
// implementation derives from standings and fixtures.
func (r *TeamRepository) SetCompetitionTeams(competitionID int, teamIDs []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byCompetition[competitionID] = append([]int(nil), teamIDs...)
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) ListByCompetition(_ context.Context, competitionID int) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byCompetition[competitionID]
	out := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.byID[id]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID int) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[teamID]
	return item, ok, nil
}

func (r *TeamRepository) Upsert(_ context.Context, items []team.Team) error {
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
