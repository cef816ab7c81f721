package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bagaskoro/goalpoll/internal/domain/competition"
	"github.com/bagaskoro/goalpoll/internal/domain/synclog"
	"github.com/bagaskoro/goalpoll/internal/domain/team"
	"github.com/bagaskoro/goalpoll/internal/infrastructure/repository/memory"
	"github.com/bagaskoro/goalpoll/internal/platform/cache"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
)

func newOrchestratorFixture(t *testing.T, provider FootballDataProvider, competitions []competition.Competition) (*SyncOrchestratorService, *memory.SyncLogRepository, syncServiceFixture) {
	t.Helper()

	fx := newSyncServiceFixture(provider, SyncConfig{})
	if len(competitions) > 0 {
		if err := fx.competitionRepo.Upsert(context.Background(), competitions); err != nil {
			t.Fatalf("seed competitions: %v", err)
		}
	}

	syncLogRepo := memory.NewSyncLogRepository()
	orchestrator := NewSyncOrchestratorService(
		fx.service,
		syncLogRepo,
		nil,
		nil,
		SyncOrchestratorConfig{CompetitionDelay: time.Millisecond},
		logging.NewNop(),
	)

	return orchestrator, syncLogRepo, fx
}

func TestRunIsolatesPerCompetitionFailures(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		teams: func(_ context.Context, competitionID int) ([]ExternalTeam, error) {
			if competitionID == 2013 {
				return nil, errors.New("provider exploded")
			}
			return []ExternalTeam{
				{ExternalID: 100 + competitionID, Name: fmt.Sprintf("Team %d", competitionID)},
				{ExternalID: 200 + competitionID, Name: fmt.Sprintf("Other %d", competitionID)},
			}, nil
		},
	}
	orchestrator, syncLogRepo, _ := newOrchestratorFixture(t, provider, []competition.Competition{
		{ID: 2013, Name: "Série A"},
		{ID: 2021, Name: "Premier League"},
	})

	result, err := orchestrator.Run(context.Background(), SyncInput{Type: synclog.TypeTeams})
	if err != nil {
		t.Fatalf("partial failures must not fail the run: %v", err)
	}

	if result.Status != string(synclog.StatusCompleted) {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if result.RecordsProcessed != 2 {
		t.Fatalf("competition 2021 must still be counted, got %d records", result.RecordsProcessed)
	}
	if result.CompetitionsCount != 2 {
		t.Fatalf("unexpected competitions count: %d", result.CompetitionsCount)
	}
	if len(result.PartialFailures) != 1 || !strings.Contains(result.PartialFailures[0], "2013") {
		t.Fatalf("unexpected partial failures: %v", result.PartialFailures)
	}

	logEntry, found, err := syncLogRepo.GetByID(context.Background(), result.SyncLogID)
	if err != nil || !found {
		t.Fatalf("get sync log: found=%v err=%v", found, err)
	}
	if logEntry.Status != synclog.StatusCompleted {
		t.Fatalf("unexpected log status: %s", logEntry.Status)
	}
	if len(logEntry.PartialFailures) != 1 {
		t.Fatalf("partial failures must be persisted, got %v", logEntry.PartialFailures)
	}
	if logEntry.CompletedAt == nil {
		t.Fatal("completed run must carry a completion time")
	}
}

func TestRunMarksLogFailedOnOrchestrationError(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		competitions: func(context.Context) ([]ExternalCompetition, error) {
			return nil, errors.New("provider unreachable")
		},
	}
	// Empty competition cache forces the fresh-fetch fallback, which
	// fails at the orchestration level.
	orchestrator, syncLogRepo, _ := newOrchestratorFixture(t, provider, nil)

	result, err := orchestrator.Run(context.Background(), SyncInput{Type: synclog.TypeStandings})
	if err == nil {
		t.Fatal("expected orchestration failure")
	}
	if result.Status != string(synclog.StatusFailed) {
		t.Fatalf("unexpected status: %s", result.Status)
	}

	logEntry, found, getErr := syncLogRepo.GetByID(context.Background(), result.SyncLogID)
	if getErr != nil || !found {
		t.Fatalf("get sync log: found=%v err=%v", found, getErr)
	}
	if logEntry.Status != synclog.StatusFailed {
		t.Fatalf("unexpected log status: %s", logEntry.Status)
	}
	if !strings.Contains(logEntry.ErrorMessage, "provider unreachable") {
		t.Fatalf("log must carry the original error text, got %q", logEntry.ErrorMessage)
	}
}

func TestRunRejectsUnknownSyncType(t *testing.T) {
	t.Parallel()

	orchestrator, _, _ := newOrchestratorFixture(t, &stubProvider{}, nil)

	_, err := orchestrator.Run(context.Background(), SyncInput{Type: "everything"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRunBrazilStandingsAliasScopesToConfiguredCompetition(t *testing.T) {
	t.Parallel()

	var requested []int
	provider := &stubProvider{
		standings: func(_ context.Context, competitionID int) ([]ExternalStandingTable, error) {
			requested = append(requested, competitionID)
			return []ExternalStandingTable{
				{Type: "TOTAL", Rows: []ExternalStandingRow{{TeamExternalID: 10, Position: 1}}},
			}, nil
		},
	}
	orchestrator, _, _ := newOrchestratorFixture(t, provider, []competition.Competition{
		{ID: 2013, Name: "Série A"},
		{ID: 2021, Name: "Premier League"},
	})

	result, err := orchestrator.Run(context.Background(), SyncInput{Type: synclog.TypeBrazilStandings})
	if err != nil {
		t.Fatalf("brazil standings run: %v", err)
	}
	if len(requested) != 1 || requested[0] != 2013 {
		t.Fatalf("alias must scope to the configured competition, requested %v", requested)
	}
	if result.RecordsProcessed != 1 {
		t.Fatalf("unexpected records processed: %d", result.RecordsProcessed)
	}
}

func TestRunInvalidatesReadCache(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		competitions: func(context.Context) ([]ExternalCompetition, error) {
			return []ExternalCompetition{{ExternalID: 2013, Name: "Série A"}}, nil
		},
	}
	fx := newSyncServiceFixture(provider, SyncConfig{})
	store := cache.NewStore(time.Minute)
	store.Set(context.Background(), "competitions", []competition.Competition{{ID: 1, Name: "Stale"}})
	store.Set(context.Background(), "h2h:10:50", "untouched")

	orchestrator := NewSyncOrchestratorService(
		fx.service,
		memory.NewSyncLogRepository(),
		nil,
		store,
		SyncOrchestratorConfig{CompetitionDelay: time.Millisecond},
		logging.NewNop(),
	)

	if _, err := orchestrator.Run(context.Background(), SyncInput{Type: synclog.TypeCompetitions}); err != nil {
		t.Fatalf("competitions run: %v", err)
	}

	if _, ok := store.Get(context.Background(), "competitions"); ok {
		t.Fatal("stale competitions entry must be dropped after the run")
	}
	if _, ok := store.Get(context.Background(), "h2h:10:50"); !ok {
		t.Fatal("head-to-head entries are not touched by a competitions run")
	}
}

// ctxCheckedSyncLogRepository rejects writes once the caller's context
// is done, the way a database ExecContext does.
type ctxCheckedSyncLogRepository struct {
	*memory.SyncLogRepository
}

func (r *ctxCheckedSyncLogRepository) MarkCompleted(ctx context.Context, id int64, recordsProcessed int, partialFailures []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.SyncLogRepository.MarkCompleted(ctx, id, recordsProcessed, partialFailures)
}

func (r *ctxCheckedSyncLogRepository) MarkFailed(ctx context.Context, id int64, recordsProcessed int, errorMessage string, partialFailures []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.SyncLogRepository.MarkFailed(ctx, id, recordsProcessed, errorMessage, partialFailures)
}

func TestRunClosesOutLogAfterCancellation(t *testing.T) {
	t.Parallel()

	fx := newSyncServiceFixture(&stubProvider{}, SyncConfig{H2HSeasonYears: 1})
	if err := fx.teamRepo.Upsert(context.Background(), []team.Team{
		{ID: 10, Name: "Clube A"},
		{ID: 50, Name: "Clube B"},
	}); err != nil {
		t.Fatalf("seed teams: %v", err)
	}
	syncLogRepo := &ctxCheckedSyncLogRepository{memory.NewSyncLogRepository()}
	orchestrator := NewSyncOrchestratorService(
		fx.service,
		syncLogRepo,
		nil,
		nil,
		SyncOrchestratorConfig{CompetitionDelay: time.Millisecond},
		logging.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orchestrator.Run(ctx, SyncInput{Type: synclog.TypeHeadToHead})
	if err == nil {
		t.Fatal("expected cancelled run to fail")
	}

	logEntry, found, getErr := syncLogRepo.GetByID(context.Background(), result.SyncLogID)
	if getErr != nil || !found {
		t.Fatalf("get sync log: found=%v err=%v", found, getErr)
	}
	if logEntry.Status != synclog.StatusFailed {
		t.Fatalf("cancelled run must not stay running, got %s", logEntry.Status)
	}
	if logEntry.CompletedAt == nil {
		t.Fatal("failed run must carry a completion time")
	}
}

func TestRunCompetitionsRefreshesWholesale(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		competitions: func(context.Context) ([]ExternalCompetition, error) {
			return []ExternalCompetition{
				{ExternalID: 2013, Name: "Série A"},
				{ExternalID: 2021, Name: "Premier League"},
			}, nil
		},
	}
	orchestrator, _, fx := newOrchestratorFixture(t, provider, nil)

	result, err := orchestrator.Run(context.Background(), SyncInput{Type: synclog.TypeCompetitions})
	if err != nil {
		t.Fatalf("competitions run: %v", err)
	}
	if result.RecordsProcessed != 2 {
		t.Fatalf("unexpected records processed: %d", result.RecordsProcessed)
	}

	cached, err := fx.competitionRepo.List(context.Background())
	if err != nil {
		t.Fatalf("list competitions: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("expected 2 cached competitions, got %d", len(cached))
	}
}
