package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bagaskoro/goalpoll/internal/domain/standing"
)

type StandingRepository struct {
	mu            sync.RWMutex
	byCompetition map[int][]standing.Standing
}

func NewStandingRepository(items []standing.Standing) *StandingRepository {
	byCompetition := make(map[int][]standing.Standing)
	for _, item := range items {
		byCompetition[item.CompetitionID] = append(byCompetition[item.CompetitionID], item)
	}

	return &StandingRepository{byCompetition: byCompetition}
}

func (r *StandingRepository) ListByCompetition(_ context.Context, competitionID int) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byCompetition[competitionID]
	out := make([]standing.Standing, 0, len(rows))
	out = append(out, rows...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	return out, nil
}

func (r *StandingRepository) ReplaceByCompetition(_ context.Context, competitionID int, items []standing.Standing) error {
	rows := make([]standing.Standing, 0, len(items))
	positions := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := positions[item.Position]; dup {
			return fmt.Errorf("duplicate standing position %d competition_id=%d", item.Position, competitionID)
		}
		positions[item.Position] = struct{}{}
		rows = append(rows, item)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCompetition[competitionID] = rows

	return nil
}

func (r *StandingRepository) UpdateForm(_ context.Context, competitionID, teamID int, form string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.byCompetition[competitionID]
	for idx := range rows {
		if rows[idx].TeamID == teamID {
			rows[idx].Form = form
			return nil
		}
	}

	return fmt.Errorf("standing not found competition_id=%d team_id=%d", competitionID, teamID)
}
