package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/bagaskoro/goalpoll/internal/domain/competition"
	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
	"github.com/bagaskoro/goalpoll/internal/domain/headtohead"
	"github.com/bagaskoro/goalpoll/internal/domain/standing"
	"github.com/bagaskoro/goalpoll/internal/domain/team"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
)

type SyncConfig struct {
	// H2HSeasonYears is how many prior season years the head-to-head
	// synchronizer walks per team pair.
	H2HSeasonYears int
	// H2HWriteConcurrency bounds the DB-write fan-out for head-to-head
	// matches. Provider calls stay serialized regardless.
	H2HWriteConcurrency int
	FormMatchLimit      int
}

func (c SyncConfig) normalized() SyncConfig {
	if c.H2HSeasonYears <= 0 {
		c.H2HSeasonYears = 10
	}
	if c.H2HWriteConcurrency <= 0 {
		c.H2HWriteConcurrency = 4
	}
	if c.FormMatchLimit <= 0 {
		c.FormMatchLimit = defaultFormMatchLimit
	}
	return c
}

// SyncService pulls one entity type at a time from the football data
// provider and persists it into the cache tables. Every method returns
// the number of records it processed.
type SyncService struct {
	provider        FootballDataProvider
	competitionRepo competition.Repository
	teamRepo        team.Repository
	standingRepo    standing.Repository
	fixtureRepo     fixture.Repository
	h2hRepo         headtohead.Repository
	form            *FormService
	cfg             SyncConfig
	logger          *logging.Logger
	now             func() time.Time
}

func NewSyncService(
	provider FootballDataProvider,
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	standingRepo standing.Repository,
	fixtureRepo fixture.Repository,
	h2hRepo headtohead.Repository,
	form *FormService,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		provider:        provider,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		standingRepo:    standingRepo,
		fixtureRepo:     fixtureRepo,
		h2hRepo:         h2hRepo,
		form:            form,
		cfg:             cfg.normalized(),
		logger:          logger,
		now:             time.Now,
	}
}

// SyncCompetitions refreshes the full competition list wholesale.
func (s *SyncService) SyncCompetitions(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncCompetitions")
	defer span.End()

	items, err := s.provider.FetchCompetitions(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch competitions from provider: %w", err)
	}

	competitions := mapExternalCompetitionsToDomain(items)
	if len(competitions) == 0 {
		s.logger.WarnContext(ctx, "provider returned no usable competitions")
		return 0, nil
	}
	if err := s.competitionRepo.Upsert(ctx, competitions); err != nil {
		return 0, fmt.Errorf("upsert competitions: %w", err)
	}

	s.logger.InfoContext(ctx, "competitions synced", "count", len(competitions))
	return len(competitions), nil
}

// SyncTeams refreshes the teams of one competition. A team shared
// across competitions keeps the latest write.
func (s *SyncService) SyncTeams(ctx context.Context, competitionID int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeams")
	defer span.End()

	if competitionID <= 0 {
		return 0, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	items, err := s.provider.FetchTeamsByCompetition(ctx, competitionID)
	if err != nil {
		return 0, fmt.Errorf("fetch teams from provider competition_id=%d: %w", competitionID, err)
	}

	teams := mapExternalTeamsToDomain(items)
	if len(teams) == 0 {
		s.logger.WarnContext(ctx, "provider returned no usable teams", "competition_id", competitionID)
		return 0, nil
	}
	if err := s.teamRepo.Upsert(ctx, teams); err != nil {
		return 0, fmt.Errorf("upsert teams competition_id=%d: %w", competitionID, err)
	}

	s.logger.InfoContext(ctx, "teams synced", "competition_id", competitionID, "count", len(teams))
	return len(teams), nil
}

// SyncStandings full-replaces one competition's table. Only the
// aggregate TOTAL table is used; per-row form is recomputed from match
// history because the provider's form field is untrusted.
func (s *SyncService) SyncStandings(ctx context.Context, competitionID int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncStandings")
	defer span.End()

	if competitionID <= 0 {
		return 0, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	tables, err := s.provider.FetchStandingsByCompetition(ctx, competitionID)
	if err != nil {
		return 0, fmt.Errorf("fetch standings from provider competition_id=%d: %w", competitionID, err)
	}

	var rows []ExternalStandingRow
	for _, table := range tables {
		if table.IsTotal() {
			rows = table.Rows
			break
		}
	}
	standings := mapExternalStandingRowsToDomain(competitionID, rows)
	if len(standings) == 0 {
		s.logger.WarnContext(ctx, "provider returned no usable standings", "competition_id", competitionID)
		return 0, nil
	}

	for i := range standings {
		form, err := s.form.ComputeForm(ctx, standings[i].TeamID, s.cfg.FormMatchLimit)
		if err != nil {
			s.logger.WarnContext(ctx,
				"form recompute failed, keeping provider form",
				"competition_id", competitionID,
				"team_id", standings[i].TeamID,
				"error", err,
			)
			continue
		}
		standings[i].Form = form
	}

	if err := s.standingRepo.ReplaceByCompetition(ctx, competitionID, standings); err != nil {
		return 0, fmt.Errorf("replace standings competition_id=%d: %w", competitionID, err)
	}

	s.logger.InfoContext(ctx, "standings synced", "competition_id", competitionID, "count", len(standings))
	return len(standings), nil
}

// SyncFixtures upserts one competition's full fixture list, all
// matchdays in one provider call. Fixtures are never bulk-deleted.
func (s *SyncService) SyncFixtures(ctx context.Context, competitionID int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncFixtures")
	defer span.End()

	if competitionID <= 0 {
		return 0, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	items, err := s.provider.FetchMatchesByCompetition(ctx, competitionID)
	if err != nil {
		return 0, fmt.Errorf("fetch matches from provider competition_id=%d: %w", competitionID, err)
	}

	fixtures := mapExternalMatchesToFixtures(competitionID, items)
	if len(fixtures) == 0 {
		s.logger.WarnContext(ctx, "provider returned no usable fixtures", "competition_id", competitionID)
		return 0, nil
	}
	if err := s.fixtureRepo.Upsert(ctx, fixtures); err != nil {
		return 0, fmt.Errorf("upsert fixtures competition_id=%d: %w", competitionID, err)
	}

	s.logger.InfoContext(ctx, "fixtures synced", "competition_id", competitionID, "count", len(fixtures))
	return len(fixtures), nil
}

// SyncHeadToHead walks every cached team pair and pulls their direct
// matches over the configured prior season years. This is the heaviest
// synchronizer (O(pairs x seasons) provider calls) and is excluded
// from the "all" sync type.
func (s *SyncService) SyncHeadToHead(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncHeadToHead")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list cached teams for head-to-head: %w", err)
	}
	if len(teams) < 2 {
		s.logger.WarnContext(ctx, "not enough cached teams for head-to-head", "team_count", len(teams))
		return 0, nil
	}

	teamIDs := make([]int, 0, len(teams))
	for _, item := range teams {
		teamIDs = append(teamIDs, item.ID)
	}
	sort.Ints(teamIDs)

	writes := pool.New().
		WithMaxGoroutines(s.cfg.H2HWriteConcurrency).
		WithErrors().
		WithContext(ctx)

	// processed only counts matches whose write actually landed.
	var processed atomic.Int64
	var cancelErr error

pairs:
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			if err := ctx.Err(); err != nil {
				cancelErr = fmt.Errorf("head-to-head sync cancelled: %w", err)
				break pairs
			}

			pair := headtohead.NewPair(teamIDs[i], teamIDs[j])
			matches, err := s.fetchPairHistory(ctx, pair)
			if err != nil {
				s.logger.WarnContext(ctx,
					"skip head-to-head pair",
					"team_low_id", pair.TeamLowID,
					"team_high_id", pair.TeamHighID,
					"error", err,
				)
				continue
			}
			if len(matches) == 0 {
				continue
			}

			writes.Go(func(ctx context.Context) error {
				if err := s.h2hRepo.Upsert(ctx, matches); err != nil {
					return fmt.Errorf("upsert head-to-head pair (%d,%d): %w", pair.TeamLowID, pair.TeamHighID, err)
				}
				processed.Add(int64(len(matches)))
				return nil
			})
		}
	}

	waitErr := writes.Wait()
	count := int(processed.Load())
	if cancelErr != nil {
		return count, cancelErr
	}
	if waitErr != nil {
		return count, waitErr
	}

	s.logger.InfoContext(ctx, "head-to-head synced", "team_count", len(teamIDs), "match_count", count)
	return count, nil
}

// fetchPairHistory queries the configured prior season years for the
// low-id team and keeps only matches against exactly the other team.
// Provider calls stay serialized through the shared limiter.
func (s *SyncService) fetchPairHistory(ctx context.Context, pair headtohead.Pair) ([]headtohead.Match, error) {
	currentYear := s.now().UTC().Year()

	seen := make(map[int]struct{})
	var merged []headtohead.Match
	for offset := 0; offset < s.cfg.H2HSeasonYears; offset++ {
		year := currentYear - offset
		dateFrom := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		dateTo := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

		items, err := s.provider.FetchTeamMatchesBetween(ctx, pair.TeamLowID, dateFrom, dateTo)
		if err != nil {
			return nil, fmt.Errorf("fetch team matches year=%d team_id=%d: %w", year, pair.TeamLowID, err)
		}
		for _, match := range mapExternalMatchesToHeadToHead(pair, items) {
			if _, ok := seen[match.MatchID]; ok {
				continue
			}
			seen[match.MatchID] = struct{}{}
			if match.SeasonYear <= 0 {
				match.SeasonYear = year
			}
			merged = append(merged, match)
		}
	}

	return merged, nil
}

// SyncTeamForm recomputes the form column of the existing standings
// rows without touching the rest of the table.
func (s *SyncService) SyncTeamForm(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeamForm")
	defer span.End()

	competitions, err := s.competitionRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list cached competitions for team form: %w", err)
	}

	processed := 0
	for _, comp := range competitions {
		if err := ctx.Err(); err != nil {
			return processed, fmt.Errorf("team form sync cancelled: %w", err)
		}

		standings, err := s.standingRepo.ListByCompetition(ctx, comp.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "skip competition for team form", "competition_id", comp.ID, "error", err)
			continue
		}
		for _, row := range standings {
			form, err := s.form.ComputeForm(ctx, row.TeamID, s.cfg.FormMatchLimit)
			if err != nil {
				s.logger.WarnContext(ctx,
					"skip team form update",
					"competition_id", comp.ID,
					"team_id", row.TeamID,
					"error", err,
				)
				continue
			}
			if err := s.standingRepo.UpdateForm(ctx, comp.ID, row.TeamID, form); err != nil {
				s.logger.WarnContext(ctx,
					"persist team form failed",
					"competition_id", comp.ID,
					"team_id", row.TeamID,
					"error", err,
				)
				continue
			}
			processed++
		}
	}

	s.logger.InfoContext(ctx, "team form synced", "count", processed)
	return processed, nil
}
