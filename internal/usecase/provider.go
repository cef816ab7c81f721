package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/bagaskoro/goalpoll/internal/domain/competition"
	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
	"github.com/bagaskoro/goalpoll/internal/domain/headtohead"
	"github.com/bagaskoro/goalpoll/internal/domain/standing"
	"github.com/bagaskoro/goalpoll/internal/domain/team"
)

// FootballDataProvider is the outbound boundary to the football data
// API. Every call goes through one shared rate limiter, so callers must
// treat each fetch as expensive.
type FootballDataProvider interface {
	FetchCompetitions(ctx context.Context) ([]ExternalCompetition, error)
	FetchCompetition(ctx context.Context, competitionID int) (ExternalCompetition, error)
	FetchTeamsByCompetition(ctx context.Context, competitionID int) ([]ExternalTeam, error)
	FetchStandingsByCompetition(ctx context.Context, competitionID int) ([]ExternalStandingTable, error)
	FetchMatchesByCompetition(ctx context.Context, competitionID int) ([]ExternalMatch, error)
	FetchMatchesByCompetitionMatchday(ctx context.Context, competitionID, matchday int) ([]ExternalMatch, error)
	FetchFinishedTeamMatches(ctx context.Context, teamID, limit int) ([]ExternalMatch, error)
	FetchTeamMatchesBetween(ctx context.Context, teamID int, dateFrom, dateTo time.Time) ([]ExternalMatch, error)
}

type ExternalCompetition struct {
	ExternalID      int
	Name            string
	Code            string
	Type            string
	AreaName        string
	AreaCode        string
	EmblemURL       string
	CurrentMatchday *int
	Plan            string
	LastUpdated     *time.Time
}

type ExternalTeam struct {
	ExternalID       int
	Name             string
	ShortName        string
	TLA              string
	CrestURL         string
	Address          string
	Website          string
	Founded          *int
	ClubColors       string
	Venue            string
	CoachName        string
	CoachNationality string
	LeagueRank       *int
}

// ExternalStandingTable is one table block of a standings response. The
// provider may return separate home/away tables next to the aggregate
// one.
type ExternalStandingTable struct {
	Type string
	Rows []ExternalStandingRow
}

const standingTableTotal = "TOTAL"

func (t ExternalStandingTable) IsTotal() bool {
	table := strings.ToUpper(strings.TrimSpace(t.Type))
	return table == "" || table == standingTableTotal
}

type ExternalStandingRow struct {
	TeamExternalID int
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	Points         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Form           string
}

type ExternalMatch struct {
	ExternalID     int
	CompetitionID  int
	SeasonID       *int
	SeasonYear     int
	Matchday       int
	Stage          string
	Group          string
	HomeTeamID     int
	AwayTeamID     int
	KickoffAt      time.Time
	Status         string
	Minute         *int
	InjuryTime     *int
	Attendance     *int
	HomeScore      *int
	AwayScore      *int
	Winner         string
	Venue          string
	Referee        string
	LastUpdated    *time.Time
}

func mapExternalCompetitionsToDomain(items []ExternalCompetition) []competition.Competition {
	if len(items) == 0 {
		return nil
	}

	out := make([]competition.Competition, 0, len(items))
	for _, item := range items {
		if item.ExternalID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		out = append(out, mapExternalCompetitionToDomain(item))
	}

	return out
}

func mapExternalCompetitionToDomain(item ExternalCompetition) competition.Competition {
	return competition.Competition{
		ID:              item.ExternalID,
		Name:            strings.TrimSpace(item.Name),
		Code:            strings.TrimSpace(item.Code),
		Type:            item.Type,
		AreaName:        item.AreaName,
		AreaCode:        item.AreaCode,
		EmblemURL:       item.EmblemURL,
		CurrentMatchday: cloneIntPtr(item.CurrentMatchday),
		Plan:            item.Plan,
		LastUpdatedAt:   cloneTimePtr(item.LastUpdated),
	}
}

func mapExternalTeamsToDomain(items []ExternalTeam) []team.Team {
	if len(items) == 0 {
		return nil
	}

	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		if item.ExternalID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		out = append(out, team.Team{
			ID:               item.ExternalID,
			Name:             strings.TrimSpace(item.Name),
			ShortName:        item.ShortName,
			TLA:              item.TLA,
			CrestURL:         item.CrestURL,
			Address:          item.Address,
			Website:          item.Website,
			Founded:          cloneIntPtr(item.Founded),
			ClubColors:       item.ClubColors,
			Venue:            item.Venue,
			CoachName:        item.CoachName,
			CoachNationality: item.CoachNationality,
			LeagueRank:       cloneIntPtr(item.LeagueRank),
		})
	}

	return out
}

func mapExternalStandingRowsToDomain(competitionID int, rows []ExternalStandingRow) []standing.Standing {
	if len(rows) == 0 {
		return nil
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		if row.TeamExternalID <= 0 || row.Position <= 0 {
			continue
		}
		out = append(out, standing.Standing{
			CompetitionID:  competitionID,
			TeamID:         row.TeamExternalID,
			Position:       row.Position,
			Played:         row.Played,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Form:           row.Form,
		})
	}

	return out
}

func mapExternalMatchesToFixtures(competitionID int, items []ExternalMatch) []fixture.Fixture {
	if len(items) == 0 {
		return nil
	}

	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.ExternalID <= 0 || item.HomeTeamID <= 0 || item.AwayTeamID <= 0 {
			continue
		}
		matchCompetitionID := item.CompetitionID
		if matchCompetitionID <= 0 {
			matchCompetitionID = competitionID
		}
		out = append(out, fixture.Fixture{
			ID:            item.ExternalID,
			CompetitionID: matchCompetitionID,
			SeasonID:      cloneIntPtr(item.SeasonID),
			Matchday:      item.Matchday,
			Stage:         item.Stage,
			Group:         item.Group,
			HomeTeamID:    item.HomeTeamID,
			AwayTeamID:    item.AwayTeamID,
			KickoffAt:     item.KickoffAt,
			Status:        fixture.NormalizeStatus(item.Status),
			Minute:        cloneIntPtr(item.Minute),
			InjuryTime:    cloneIntPtr(item.InjuryTime),
			Attendance:    cloneIntPtr(item.Attendance),
			HomeScore:     cloneIntPtr(item.HomeScore),
			AwayScore:     cloneIntPtr(item.AwayScore),
			Winner:        item.Winner,
			Venue:         item.Venue,
			Referee:       item.Referee,
			LastUpdatedAt: cloneTimePtr(item.LastUpdated),
		})
	}

	return out
}

func mapExternalMatchesToHeadToHead(pair headtohead.Pair, items []ExternalMatch) []headtohead.Match {
	if len(items) == 0 {
		return nil
	}

	out := make([]headtohead.Match, 0, len(items))
	for _, item := range items {
		if item.ExternalID <= 0 {
			continue
		}
		if !pair.Contains(item.HomeTeamID, item.AwayTeamID) {
			continue
		}
		seasonYear := item.SeasonYear
		if seasonYear <= 0 && !item.KickoffAt.IsZero() {
			seasonYear = item.KickoffAt.Year()
		}
		out = append(out, headtohead.Match{
			Pair:          pair,
			MatchID:       item.ExternalID,
			CompetitionID: item.CompetitionID,
			SeasonYear:    seasonYear,
			HomeTeamID:    item.HomeTeamID,
			AwayTeamID:    item.AwayTeamID,
			KickoffAt:     item.KickoffAt,
			HomeScore:     cloneIntPtr(item.HomeScore),
			AwayScore:     cloneIntPtr(item.AwayScore),
			Status:        fixture.NormalizeStatus(item.Status),
			Winner:        item.Winner,
			Venue:         item.Venue,
			LastUpdatedAt: cloneTimePtr(item.LastUpdated),
		})
	}

	return out
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
