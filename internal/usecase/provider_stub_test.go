package usecase

import (
	"context"
	"time"
)

// stubProvider lets each test wire only the fetches it cares about.
type stubProvider struct {
	competitions    func(ctx context.Context) ([]ExternalCompetition, error)
	competition     func(ctx context.Context, competitionID int) (ExternalCompetition, error)
	teams           func(ctx context.Context, competitionID int) ([]ExternalTeam, error)
	standings       func(ctx context.Context, competitionID int) ([]ExternalStandingTable, error)
	matches         func(ctx context.Context, competitionID int) ([]ExternalMatch, error)
	matchesMatchday func(ctx context.Context, competitionID, matchday int) ([]ExternalMatch, error)
	finishedMatches func(ctx context.Context, teamID, limit int) ([]ExternalMatch, error)
	matchesBetween  func(ctx context.Context, teamID int, dateFrom, dateTo time.Time) ([]ExternalMatch, error)
}

func (s *stubProvider) FetchCompetitions(ctx context.Context) ([]ExternalCompetition, error) {
	if s.competitions == nil {
		return nil, nil
	}
	return s.competitions(ctx)
}

func (s *stubProvider) FetchCompetition(ctx context.Context, competitionID int) (ExternalCompetition, error) {
	if s.competition == nil {
		return ExternalCompetition{}, nil
	}
	return s.competition(ctx, competitionID)
}

func (s *stubProvider) FetchTeamsByCompetition(ctx context.Context, competitionID int) ([]ExternalTeam, error) {
	if s.teams == nil {
		return nil, nil
	}
	return s.teams(ctx, competitionID)
}

func (s *stubProvider) FetchStandingsByCompetition(ctx context.Context, competitionID int) ([]ExternalStandingTable, error) {
	if s.standings == nil {
		return nil, nil
	}
	return s.standings(ctx, competitionID)
}

func (s *stubProvider) FetchMatchesByCompetition(ctx context.Context, competitionID int) ([]ExternalMatch, error) {
	if s.matches == nil {
		return nil, nil
	}
	return s.matches(ctx, competitionID)
}

func (s *stubProvider) FetchMatchesByCompetitionMatchday(ctx context.Context, competitionID, matchday int) ([]ExternalMatch, error) {
	if s.matchesMatchday == nil {
		return nil, nil
	}
	return s.matchesMatchday(ctx, competitionID, matchday)
}

func (s *stubProvider) FetchFinishedTeamMatches(ctx context.Context, teamID, limit int) ([]ExternalMatch, error) {
	if s.finishedMatches == nil {
		return nil, nil
	}
	return s.finishedMatches(ctx, teamID, limit)
}

func (s *stubProvider) FetchTeamMatchesBetween(ctx context.Context, teamID int, dateFrom, dateTo time.Time) ([]ExternalMatch, error) {
	if s.matchesBetween == nil {
		return nil, nil
	}
	return s.matchesBetween(ctx, teamID, dateFrom, dateTo)
}
