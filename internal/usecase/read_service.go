package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bagaskoro/goalpoll/internal/domain/competition"
	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
	"github.com/bagaskoro/goalpoll/internal/domain/headtohead"
	"github.com/bagaskoro/goalpoll/internal/domain/standing"
	"github.com/bagaskoro/goalpoll/internal/domain/team"
	"github.com/bagaskoro/goalpoll/internal/platform/cache"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
)

type ReadConfig struct {
	// MatchdayAdvanceAfter advances the displayed round once this much
	// time has passed since the round's last kickoff.
	MatchdayAdvanceAfter time.Duration
	// MatchdayTightGap and MatchdayTightAdvanceAfter handle rounds that
	// run close together: when the next round starts within TightGap of
	// the current round's last match, advancing already happens after
	// TightAdvanceAfter.
	MatchdayTightGap          time.Duration
	MatchdayTightAdvanceAfter time.Duration
	FormMatchLimit            int
	// H2HFallbackYears bounds the provider fallback for head-to-head
	// reads; the full history is only walked by the synchronizer.
	H2HFallbackYears int
}

func (c ReadConfig) normalized() ReadConfig {
	if c.MatchdayAdvanceAfter <= 0 {
		c.MatchdayAdvanceAfter = 24 * time.Hour
	}
	if c.MatchdayTightGap <= 0 {
		c.MatchdayTightGap = 24 * time.Hour
	}
	if c.MatchdayTightAdvanceAfter <= 0 {
		c.MatchdayTightAdvanceAfter = 8 * time.Hour
	}
	if c.FormMatchLimit <= 0 {
		c.FormMatchLimit = defaultFormMatchLimit
	}
	if c.H2HFallbackYears <= 0 {
		c.H2HFallbackYears = 2
	}
	return c
}

// ReadService serves the frontend-facing reads. Every getter tries the
// cache tables first and falls back to a direct provider call on a
// repo error or an empty result. Fallback results are returned, never
// persisted.
type ReadService struct {
	provider        FootballDataProvider
	competitionRepo competition.Repository
	teamRepo        team.Repository
	standingRepo    standing.Repository
	fixtureRepo     fixture.Repository
	h2hRepo         headtohead.Repository
	form            *FormService
	store           *cache.Store
	cfg             ReadConfig
	logger          *logging.Logger
	now             func() time.Time
}

func NewReadService(
	provider FootballDataProvider,
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	standingRepo standing.Repository,
	fixtureRepo fixture.Repository,
	h2hRepo headtohead.Repository,
	form *FormService,
	store *cache.Store,
	cfg ReadConfig,
	logger *logging.Logger,
) *ReadService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReadService{
		provider:        provider,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		standingRepo:    standingRepo,
		fixtureRepo:     fixtureRepo,
		h2hRepo:         h2hRepo,
		form:            form,
		store:           store,
		cfg:             cfg.normalized(),
		logger:          logger,
		now:             time.Now,
	}
}

// memoize routes a load through the in-process TTL cache when one is
// configured.
func (s *ReadService) memoize(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if s.store == nil {
		return load(ctx)
	}
	return s.store.GetOrLoad(ctx, key, load)
}

func (s *ReadService) GetCompetitions(ctx context.Context) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReadService.GetCompetitions")
	defer span.End()

	value, err := s.memoize(ctx, "competitions", func(ctx context.Context) (any, error) {
		return s.loadCompetitions(ctx)
	})
	if err != nil {
		return nil, err
	}
	out, _ := value.([]competition.Competition)
	return out, nil
}

func (s *ReadService) loadCompetitions(ctx context.Context) ([]competition.Competition, error) {
	items, repoErr := s.competitionRepo.List(ctx)
	if repoErr == nil && len(items) > 0 {
		return items, nil
	}
	if repoErr != nil {
		s.logger.WarnContext(ctx, "competition cache read failed, falling back to provider", "error", repoErr)
	}

	external, err := s.provider.FetchCompetitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch competitions fallback: %w", err)
	}
	return mapExternalCompetitionsToDomain(external), nil
}

func (s *ReadService) GetCompetition(ctx context.Context, competitionID int) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReadService.GetCompetition")
	defer span.End()

	if competitionID <= 0 {
		return competition.Competition{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	value, err := s.memoize(ctx, fmt.Sprintf("competitions:%d", competitionID), func(ctx context.Context) (any, error) {
		return s.loadCompetition(ctx, competitionID)
	})
	if err != nil {
		return competition.Competition{}, err
	}
	out, _ := value.(competition.Competition)
	return out, nil
}

func (s *ReadService) loadCompetition(ctx context.Context, competitionID int) (competition.Competition, error) {
	item, found, repoErr := s.competitionRepo.GetByID(ctx, competitionID)
	if repoErr == nil && found {
		return item, nil
	}
	if repoErr != nil {
		s.logger.WarnContext(ctx, "competition cache read failed, falling back to provider", "competition_id", competitionID, "error", repoErr)
	}

	external, err := s.provider.FetchCompetition(ctx, competitionID)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("fetch competition fallback competition_id=%d: %w", competitionID, err)
	}
	if external.ExternalID <= 0 {
		return competition.Competition{}, fmt.Errorf("%w: competition %d", ErrNotFound, competitionID)
	}
	return mapExternalCompetitionToDomain(external), nil
}

func (s *ReadService) GetTeams(ctx context.Context, competitionID int) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReadService.GetTeams")
	defer span.End()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	value, err := s.memoize(ctx, fmt.Sprintf("competitions:%d:teams", competitionID), func(ctx context.Context) (any, error) {
		return s.loadTeams(ctx, competitionID)
	})
	if err != nil {
		return nil, err
	}
	out, _ := value.([]team.Team)
	return out, nil
}

func (s *ReadService) loadTeams(ctx context.Context, competitionID int) ([]team.Team, error) {
	items, repoErr := s.teamRepo.ListByCompetition(ctx, competitionID)
	if repoErr == nil && len(items) > 0 {
		return items, nil
	}
	if repoErr != nil {
		s.logger.WarnContext(ctx, "team cache read failed, falling back to provider", "competition_id", competitionID, "error", repoErr)
	}

	external, err := s.provider.FetchTeamsByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("fetch teams fallback competition_id=%d: %w", competitionID, err)
	}
	return mapExternalTeamsToDomain(external), nil
}

func (s *ReadService) GetStandings(ctx context.Context, competitionID int) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReadService.GetStandings")
	defer span.End()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	value, err := s.memoize(ctx, fmt.Sprintf("competitions:%d:standings", competitionID), func(ctx context.Context) (any, error) {
		return s.loadStandings(ctx, competitionID)
	})
	if err != nil {
		return nil, err
	}
	out, _ := value.([]standing.Standing)
	return out, nil
}

func (s *ReadService) loadStandings(ctx context.Context, competitionID int) ([]standing.Standing, error) {
	items, repoErr := s.standingRepo.ListByCompetition(ctx, competitionID)
	if repoErr == nil && len(items) > 0 {
		return items, nil
	}
	if repoErr != nil {
		s.logger.WarnContext(ctx, "standing cache read failed, falling back to provider", "competition_id", competitionID, "error", repoErr)
	}

	tables, err := s.provider.FetchStandingsByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("fetch standings fallback competition_id=%d: %w", competitionID, err)
	}
	for _, table := range tables {
		if table.IsTotal() {
			return mapExternalStandingRowsToDomain(competitionID, table.Rows), nil
		}
	}
	return nil, nil
}

// GetFixtures lists a competition's fixtures, optionally narrowed to
// one matchday.
func (s *ReadService) GetFixtures(ctx context.Context, competitionID int, matchday *int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReadService.GetFixtures")
	defer span.End()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if matchday != nil && *matchday <= 0 {
		return nil, fmt.Errorf("%w: matchday must be positive", ErrInvalidInput)
	}

	key := fmt.Sprintf("competitions:%d:fixtures", competitionID)
	if matchday != nil {
		key = fmt.Sprintf("competitions:%d:fixtures:%d", competitionID, *matchday)
	}

	value, err := s.memoize(ctx, key, func(ctx context.Context) (any, error) {
		return s.loadFixtures(ctx, competitionID, matchday)
	})
	if err != nil {
		return nil, err
	}
	out, _ := value.([]fixture.Fixture)
	return out, nil
}

func (s *ReadService) loadFixtures(ctx context.Context, competitionID int, matchday *int) ([]fixture.Fixture, error) {
	var (
		items   []fixture.Fixture
		repoErr error
	)
	if matchday != nil {
		items, repoErr = s.fixtureRepo.ListByCompetitionMatchday(ctx, competitionID, *matchday)
	} else {
		items, repoErr = s.fixtureRepo.ListByCompetition(ctx, competitionID)
	}
	if repoErr == nil && len(items) > 0 {
		return items, nil
	}
	if repoErr != nil {
		s.logger.WarnContext(ctx, "fixture cache read failed, falling back to provider", "competition_id", competitionID, "error", repoErr)
	}

	var (
		external []ExternalMatch
		err      error
	)
	if matchday != nil {
		external, err = s.provider.FetchMatchesByCompetitionMatchday(ctx, competitionID, *matchday)
	} else {
		external, err = s.provider.FetchMatchesByCompetition(ctx, competitionID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures fallback competition_id=%d: %w", competitionID, err)
	}
	return mapExternalMatchesToFixtures(competitionID, external), nil
}

// GetTeamForm returns the team's recent W/D/L string. The computation
// always walks raw match history; the TTL cache keeps repeat reads from
// burning the rate budget.
func (s *ReadService) GetTeamForm(ctx context.Context, teamID int) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReadService.GetTeamForm")
	defer span.End()

	if teamID <= 0 {
		return "", fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	value, err := s.memoize(ctx, fmt.Sprintf("teams:%d:form", teamID), func(ctx context.Context) (any, error) {
		return s.form.ComputeForm(ctx, teamID, s.cfg.FormMatchLimit)
	})
	if err != nil {
		return "", err
	}
	out, _ := value.(string)
	return out, nil
}

func (s *ReadService) GetHeadToHead(ctx context.Context, teamA, teamB int) ([]headtohead.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReadService.GetHeadToHead")
	defer span.End()

	if teamA <= 0 || teamB <= 0 || teamA == teamB {
		return nil, fmt.Errorf("%w: two distinct team ids are required", ErrInvalidInput)
	}

	pair := headtohead.NewPair(teamA, teamB)
	key := fmt.Sprintf("h2h:%d:%d", pair.TeamLowID, pair.TeamHighID)
	value, err := s.memoize(ctx, key, func(ctx context.Context) (any, error) {
		return s.loadHeadToHead(ctx, pair)
	})
	if err != nil {
		return nil, err
	}
	out, _ := value.([]headtohead.Match)
	return out, nil
}

func (s *ReadService) loadHeadToHead(ctx context.Context, pair headtohead.Pair) ([]headtohead.Match, error) {
	items, repoErr := s.h2hRepo.ListByPair(ctx, pair)
	if repoErr == nil && len(items) > 0 {
		return items, nil
	}
	if repoErr != nil {
		s.logger.WarnContext(ctx, "head-to-head cache read failed, falling back to provider",
			"team_low_id", pair.TeamLowID, "team_high_id", pair.TeamHighID, "error", repoErr)
	}

	currentYear := s.now().UTC().Year()
	seen := make(map[int]struct{})
	var merged []headtohead.Match
	for offset := 0; offset < s.cfg.H2HFallbackYears; offset++ {
		year := currentYear - offset
		dateFrom := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		dateTo := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

		external, err := s.provider.FetchTeamMatchesBetween(ctx, pair.TeamLowID, dateFrom, dateTo)
		if err != nil {
			return nil, fmt.Errorf("fetch head-to-head fallback team_id=%d year=%d: %w", pair.TeamLowID, year, err)
		}
		for _, match := range mapExternalMatchesToHeadToHead(pair, external) {
			if _, ok := seen[match.MatchID]; ok {
				continue
			}
			seen[match.MatchID] = struct{}{}
			merged = append(merged, match)
		}
	}

	return merged, nil
}

// GetSmartCurrentMatchday decides which round the frontend should
// display. The official current round advances by one either after a
// full MatchdayAdvanceAfter since its last kickoff, or earlier when
// the next round starts within MatchdayTightGap and
// MatchdayTightAdvanceAfter has already passed.
func (s *ReadService) GetSmartCurrentMatchday(ctx context.Context, competitionID int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReadService.GetSmartCurrentMatchday")
	defer span.End()

	comp, err := s.GetCompetition(ctx, competitionID)
	if err != nil {
		return 0, err
	}
	official := 1
	if comp.CurrentMatchday != nil && *comp.CurrentMatchday > 0 {
		official = *comp.CurrentMatchday
	}

	currentRound, err := s.GetFixtures(ctx, competitionID, &official)
	if err != nil || len(currentRound) == 0 {
		if err != nil {
			s.logger.WarnContext(ctx, "smart matchday falling back to official round", "competition_id", competitionID, "error", err)
		}
		return official, nil
	}

	latestKickoff := currentRound[0].KickoffAt
	for _, item := range currentRound[1:] {
		if item.KickoffAt.After(latestKickoff) {
			latestKickoff = item.KickoffAt
		}
	}

	elapsed := s.now().Sub(latestKickoff)
	if elapsed >= s.cfg.MatchdayAdvanceAfter {
		return official + 1, nil
	}
	if elapsed < s.cfg.MatchdayTightAdvanceAfter {
		return official, nil
	}

	next := official + 1
	nextRound, err := s.GetFixtures(ctx, competitionID, &next)
	if err != nil || len(nextRound) == 0 {
		return official, nil
	}

	earliestNext := nextRound[0].KickoffAt
	for _, item := range nextRound[1:] {
		if item.KickoffAt.Before(earliestNext) {
			earliestNext = item.KickoffAt
		}
	}

	if earliestNext.Sub(latestKickoff) < s.cfg.MatchdayTightGap {
		return next, nil
	}
	return official, nil
}
