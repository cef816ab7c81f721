package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
	"github.com/bagaskoro/goalpoll/internal/domain/headtohead"
	"github.com/bagaskoro/goalpoll/internal/domain/team"
	"github.com/bagaskoro/goalpoll/internal/infrastructure/repository/memory"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
)

type syncServiceFixture struct {
	service         *SyncService
	competitionRepo *memory.CompetitionRepository
	teamRepo        *memory.TeamRepository
	standingRepo    *memory.StandingRepository
	fixtureRepo     *memory.FixtureRepository
	h2hRepo         *memory.HeadToHeadRepository
}

func newSyncServiceFixture(provider FootballDataProvider, cfg SyncConfig) syncServiceFixture {
	competitionRepo := memory.NewCompetitionRepository(nil)
	teamRepo := memory.NewTeamRepository(nil)
	standingRepo := memory.NewStandingRepository(nil)
	fixtureRepo := memory.NewFixtureRepository(nil)
	h2hRepo := memory.NewHeadToHeadRepository(nil)
	form := NewFormService(provider, logging.NewNop())

	return syncServiceFixture{
		service: NewSyncService(
			provider, competitionRepo, teamRepo, standingRepo, fixtureRepo, h2hRepo,
			form, cfg, logging.NewNop(),
		),
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		standingRepo:    standingRepo,
		fixtureRepo:     fixtureRepo,
		h2hRepo:         h2hRepo,
	}
}

func TestSyncStandingsReplaceIsIdempotent(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		standings: func(_ context.Context, competitionID int) ([]ExternalStandingTable, error) {
			if competitionID != 2013 {
				t.Fatalf("unexpected competition id: %d", competitionID)
			}
			return []ExternalStandingTable{
				// The home table must be ignored in favor of TOTAL.
				{Type: "HOME", Rows: []ExternalStandingRow{{TeamExternalID: 99, Position: 1}}},
				{Type: "TOTAL", Rows: []ExternalStandingRow{
					{TeamExternalID: 10, Position: 1, Played: 20, Won: 15, Points: 47, Form: "?????"},
					{TeamExternalID: 50, Position: 2, Played: 20, Won: 13, Points: 41},
					{TeamExternalID: 70, Position: 3, Played: 20, Won: 12, Points: 40},
				}},
			}, nil
		},
		finishedMatches: func(_ context.Context, teamID, _ int) ([]ExternalMatch, error) {
			return []ExternalMatch{
				finishedMatch(1000+teamID, teamID, 7, time.Date(2026, time.August, 10, 16, 0, 0, 0, time.UTC), fixture.WinnerHomeTeam),
			}, nil
		},
	}

	fx := newSyncServiceFixture(provider, SyncConfig{})
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		count, err := fx.service.SyncStandings(ctx, 2013)
		if err != nil {
			t.Fatalf("run %d: sync standings: %v", run, err)
		}
		if count != 3 {
			t.Fatalf("run %d: expected 3 processed rows, got %d", run, count)
		}
	}

	rows, err := fx.standingRepo.ListByCompetition(ctx, 2013)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("replace must not accumulate rows, got %d", len(rows))
	}

	positions := make(map[int]bool, len(rows))
	for _, row := range rows {
		if positions[row.Position] {
			t.Fatalf("duplicate position %d", row.Position)
		}
		positions[row.Position] = true
		if row.Form != "W" {
			t.Fatalf("form must be recomputed, got %q for team %d", row.Form, row.TeamID)
		}
	}
}

func TestSyncFixturesUpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, time.August, 22, 19, 0, 0, 0, time.UTC)
	score := 0
	matches := []ExternalMatch{
		{ExternalID: 501, CompetitionID: 2013, Matchday: 1, HomeTeamID: 10, AwayTeamID: 50, KickoffAt: kickoff, Status: fixture.StatusTimed},
		{ExternalID: 502, CompetitionID: 2013, Matchday: 1, HomeTeamID: 70, AwayTeamID: 80, KickoffAt: kickoff, Status: fixture.StatusTimed},
	}
	provider := &stubProvider{
		matches: func(context.Context, int) ([]ExternalMatch, error) {
			return matches, nil
		},
	}

	fx := newSyncServiceFixture(provider, SyncConfig{})
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		if _, err := fx.service.SyncFixtures(ctx, 2013); err != nil {
			t.Fatalf("run %d: sync fixtures: %v", run, err)
		}
	}
	if fx.fixtureRepo.Len() != 2 {
		t.Fatalf("upsert must not duplicate fixtures, got %d rows", fx.fixtureRepo.Len())
	}

	score = 2
	matches[0].Status = fixture.StatusFinished
	matches[0].HomeScore = &score
	if _, err := fx.service.SyncFixtures(ctx, 2013); err != nil {
		t.Fatalf("sync updated fixtures: %v", err)
	}

	if fx.fixtureRepo.Len() != 2 {
		t.Fatalf("score update must stay in place, got %d rows", fx.fixtureRepo.Len())
	}
	rows, err := fx.fixtureRepo.ListByCompetitionMatchday(ctx, 2013, 1)
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	for _, row := range rows {
		if row.ID == 501 {
			if row.Status != fixture.StatusFinished || row.HomeScore == nil || *row.HomeScore != 2 {
				t.Fatalf("expected updated score on fixture 501, got %+v", row)
			}
		}
	}
}

func TestSyncHeadToHeadStoresCanonicalPairs(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, time.April, 4, 16, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		matchesBetween: func(_ context.Context, teamID int, _, _ time.Time) ([]ExternalMatch, error) {
			if teamID != 10 {
				t.Fatalf("pair history must be fetched for the low id team, got %d", teamID)
			}
			return []ExternalMatch{
				finishedMatch(801, 50, 10, kickoff, fixture.WinnerHomeTeam),
				finishedMatch(802, 10, 50, kickoff.AddDate(0, -6, 0), fixture.WinnerAwayTeam),
				// A match against a third team must be filtered out.
				finishedMatch(803, 10, 99, kickoff.AddDate(0, -3, 0), fixture.WinnerDraw),
			}, nil
		},
	}

	fx := newSyncServiceFixture(provider, SyncConfig{H2HSeasonYears: 1})
	if err := fx.teamRepo.Upsert(context.Background(), []team.Team{
		{ID: 50, Name: "Clube A"},
		{ID: 10, Name: "Clube B"},
	}); err != nil {
		t.Fatalf("seed teams: %v", err)
	}

	count, err := fx.service.SyncHeadToHead(context.Background())
	if err != nil {
		t.Fatalf("sync head-to-head: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 pair matches, got %d", count)
	}
	if fx.h2hRepo.PairCount() != 1 {
		t.Fatalf("both directions must share one canonical pair, got %d", fx.h2hRepo.PairCount())
	}

	stored, err := fx.h2hRepo.ListByPair(context.Background(), headtohead.NewPair(50, 10))
	if err != nil {
		t.Fatalf("list pair: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored matches, got %d", len(stored))
	}
	for _, match := range stored {
		if match.Pair.TeamLowID != 10 || match.Pair.TeamHighID != 50 {
			t.Fatalf("pair not canonical: %+v", match.Pair)
		}
	}
}

type failingHeadToHeadRepository struct {
	*memory.HeadToHeadRepository
}

func (r *failingHeadToHeadRepository) Upsert(context.Context, []headtohead.Match) error {
	return errors.New("write rejected")
}

func TestSyncHeadToHeadCountsOnlyPersistedMatches(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, time.April, 4, 16, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		matchesBetween: func(context.Context, int, time.Time, time.Time) ([]ExternalMatch, error) {
			return []ExternalMatch{
				finishedMatch(801, 50, 10, kickoff, fixture.WinnerHomeTeam),
				finishedMatch(802, 10, 50, kickoff.AddDate(0, -6, 0), fixture.WinnerAwayTeam),
			}, nil
		},
	}

	teamRepo := memory.NewTeamRepository(nil)
	if err := teamRepo.Upsert(context.Background(), []team.Team{
		{ID: 50, Name: "Clube A"},
		{ID: 10, Name: "Clube B"},
	}); err != nil {
		t.Fatalf("seed teams: %v", err)
	}

	service := NewSyncService(
		provider,
		memory.NewCompetitionRepository(nil),
		teamRepo,
		memory.NewStandingRepository(nil),
		memory.NewFixtureRepository(nil),
		&failingHeadToHeadRepository{memory.NewHeadToHeadRepository(nil)},
		NewFormService(provider, logging.NewNop()),
		SyncConfig{H2HSeasonYears: 1},
		logging.NewNop(),
	)

	count, err := service.SyncHeadToHead(context.Background())
	if err == nil {
		t.Fatal("expected write failure to propagate")
	}
	if count != 0 {
		t.Fatalf("rejected writes must not be counted, got %d", count)
	}
}

func TestSyncTeamsLastWriteWins(t *testing.T) {
	t.Parallel()

	name := "Clube de Regatas"
	provider := &stubProvider{
		teams: func(_ context.Context, competitionID int) ([]ExternalTeam, error) {
			return []ExternalTeam{{ExternalID: 10, Name: name, TLA: "CRF"}}, nil
		},
	}

	fx := newSyncServiceFixture(provider, SyncConfig{})
	ctx := context.Background()

	if _, err := fx.service.SyncTeams(ctx, 2013); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	name = "Clube de Regatas do Flamengo"
	if _, err := fx.service.SyncTeams(ctx, 2014); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	stored, found, err := fx.teamRepo.GetByID(ctx, 10)
	if err != nil || !found {
		t.Fatalf("get team: found=%v err=%v", found, err)
	}
	if stored.Name != "Clube de Regatas do Flamengo" {
		t.Fatalf("last write must win, got %q", stored.Name)
	}
}
