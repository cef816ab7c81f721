package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
)

func finishedMatch(id, homeID, awayID int, kickoff time.Time, winner string) ExternalMatch {
	return ExternalMatch{
		ExternalID: id,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		KickoffAt:  kickoff,
		Status:     fixture.StatusFinished,
		Winner:     winner,
	}
}

func TestComputeFormAllHomeWins(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.August, 1, 16, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		finishedMatches: func(_ context.Context, teamID, limit int) ([]ExternalMatch, error) {
			if teamID != 64 {
				t.Fatalf("unexpected team id: %d", teamID)
			}
			if limit != 10 {
				t.Fatalf("expected 2x over-fetch, got limit %d", limit)
			}
			out := make([]ExternalMatch, 0, 5)
			for i := 0; i < 5; i++ {
				out = append(out, finishedMatch(100+i, 64, 70+i, base.AddDate(0, 0, -7*i), fixture.WinnerHomeTeam))
			}
			return out, nil
		},
	}

	form, err := NewFormService(provider, logging.NewNop()).ComputeForm(context.Background(), 64, 5)
	if err != nil {
		t.Fatalf("compute form: %v", err)
	}
	if form != "WWWWW" {
		t.Fatalf("expected WWWWW, got %q", form)
	}
}

func TestComputeFormEmptyWhenNoFinishedMatches(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		finishedMatches: func(context.Context, int, int) ([]ExternalMatch, error) {
			return []ExternalMatch{
				{ExternalID: 1, HomeTeamID: 64, AwayTeamID: 65, Status: fixture.StatusTimed},
			}, nil
		},
	}

	form, err := NewFormService(provider, logging.NewNop()).ComputeForm(context.Background(), 64, 5)
	if err != nil {
		t.Fatalf("compute form: %v", err)
	}
	if form != "" {
		t.Fatalf("no finished matches must yield the unknown sentinel, got %q", form)
	}
}

func TestComputeFormMostRecentFirstAndRoleMapping(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.August, 1, 16, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		finishedMatches: func(context.Context, int, int) ([]ExternalMatch, error) {
			return []ExternalMatch{
				// Oldest first on purpose; the service must sort.
				finishedMatch(1, 64, 70, base.AddDate(0, 0, -21), fixture.WinnerAwayTeam), // home loss
				finishedMatch(2, 71, 64, base.AddDate(0, 0, -14), fixture.WinnerAwayTeam), // away win
				finishedMatch(3, 64, 72, base.AddDate(0, 0, -7), fixture.WinnerDraw),      // draw
			}, nil
		},
	}

	form, err := NewFormService(provider, logging.NewNop()).ComputeForm(context.Background(), 64, 5)
	if err != nil {
		t.Fatalf("compute form: %v", err)
	}
	if form != "DWL" {
		t.Fatalf("expected DWL most recent first, got %q", form)
	}
}

func TestComputeFormFallsBackToScoresWithoutWinner(t *testing.T) {
	t.Parallel()

	home, away := 3, 1
	match := ExternalMatch{
		ExternalID: 9,
		HomeTeamID: 64,
		AwayTeamID: 70,
		KickoffAt:  time.Date(2026, time.July, 20, 19, 0, 0, 0, time.UTC),
		Status:     fixture.StatusFinished,
		HomeScore:  &home,
		AwayScore:  &away,
	}
	provider := &stubProvider{
		finishedMatches: func(context.Context, int, int) ([]ExternalMatch, error) {
			return []ExternalMatch{match}, nil
		},
	}

	form, err := NewFormService(provider, logging.NewNop()).ComputeForm(context.Background(), 64, 5)
	if err != nil {
		t.Fatalf("compute form: %v", err)
	}
	if form != "W" {
		t.Fatalf("expected score fallback W, got %q", form)
	}
}
