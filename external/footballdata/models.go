package footballdata

import (
	"strings"
	"time"

	"github.com/bagaskoro/goalpoll/internal/usecase"
)

// Typed envelopes for the provider's v4 payloads. Decoding happens once
// at the boundary; nothing downstream walks dynamic maps.

type competitionsEnvelope struct {
	Competitions []competitionPayload `json:"competitions"`
}

type competitionPayload struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Code          string         `json:"code"`
	Type          string         `json:"type"`
	Emblem        string         `json:"emblem"`
	Area          areaPayload    `json:"area"`
	CurrentSeason *seasonPayload `json:"currentSeason"`
	Plan          string         `json:"plan"`
	LastUpdated   string         `json:"lastUpdated"`
}

type areaPayload struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type seasonPayload struct {
	ID              int    `json:"id"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CurrentMatchday *int   `json:"currentMatchday"`
}

type teamsEnvelope struct {
	Teams []teamPayload `json:"teams"`
}

type teamPayload struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	ShortName  string        `json:"shortName"`
	TLA        string        `json:"tla"`
	Crest      string        `json:"crest"`
	Address    string        `json:"address"`
	Website    string        `json:"website"`
	Founded    *int          `json:"founded"`
	ClubColors string        `json:"clubColors"`
	Venue      string        `json:"venue"`
	Coach      *coachPayload `json:"coach"`
}

type coachPayload struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
}

type standingsEnvelope struct {
	Standings []standingTablePayload `json:"standings"`
}

type standingTablePayload struct {
	Type  string                `json:"type"`
	Table []standingRowPayload  `json:"table"`
}

type standingRowPayload struct {
	Position       int            `json:"position"`
	Team           teamRefPayload `json:"team"`
	PlayedGames    int            `json:"playedGames"`
	Won            int            `json:"won"`
	Draw           int            `json:"draw"`
	Lost           int            `json:"lost"`
	Points         int            `json:"points"`
	GoalsFor       int            `json:"goalsFor"`
	GoalsAgainst   int            `json:"goalsAgainst"`
	GoalDifference int            `json:"goalDifference"`
	Form           string         `json:"form"`
}

type teamRefPayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type matchesEnvelope struct {
	Matches []matchPayload `json:"matches"`
}

type matchPayload struct {
	ID          int               `json:"id"`
	Competition *competitionRef   `json:"competition"`
	Season      *seasonPayload    `json:"season"`
	Matchday    int               `json:"matchday"`
	Stage       string            `json:"stage"`
	Group       string            `json:"group"`
	UTCDate     string            `json:"utcDate"`
	Status      string            `json:"status"`
	Minute      *int              `json:"minute"`
	InjuryTime  *int              `json:"injuryTime"`
	Attendance  *int              `json:"attendance"`
	Venue       string            `json:"venue"`
	Referees    []refereePayload  `json:"referees"`
	HomeTeam    teamRefPayload    `json:"homeTeam"`
	AwayTeam    teamRefPayload    `json:"awayTeam"`
	Score       scorePayload      `json:"score"`
	LastUpdated string            `json:"lastUpdated"`
}

type competitionRef struct {
	ID int `json:"id"`
}

type refereePayload struct {
	Name string `json:"name"`
}

type scorePayload struct {
	Winner   string           `json:"winner"`
	FullTime scorePairPayload `json:"fullTime"`
}

type scorePairPayload struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func mapCompetitionPayload(item competitionPayload) usecase.ExternalCompetition {
	out := usecase.ExternalCompetition{
		ExternalID:  item.ID,
		Name:        item.Name,
		Code:        item.Code,
		Type:        item.Type,
		AreaName:    item.Area.Name,
		AreaCode:    item.Area.Code,
		EmblemURL:   item.Emblem,
		Plan:        item.Plan,
		LastUpdated: parseProviderDateTime(item.LastUpdated),
	}
	if item.CurrentSeason != nil && item.CurrentSeason.CurrentMatchday != nil {
		matchday := *item.CurrentSeason.CurrentMatchday
		out.CurrentMatchday = &matchday
	}
	return out
}

func mapTeamPayload(item teamPayload) usecase.ExternalTeam {
	out := usecase.ExternalTeam{
		ExternalID: item.ID,
		Name:       item.Name,
		ShortName:  item.ShortName,
		TLA:        item.TLA,
		CrestURL:   item.Crest,
		Address:    item.Address,
		Website:    item.Website,
		Founded:    item.Founded,
		ClubColors: item.ClubColors,
		Venue:      item.Venue,
	}
	if item.Coach != nil {
		out.CoachName = item.Coach.Name
		out.CoachNationality = item.Coach.Nationality
	}
	return out
}

func mapStandingTablePayload(table standingTablePayload) usecase.ExternalStandingTable {
	rows := make([]usecase.ExternalStandingRow, 0, len(table.Table))
	for _, row := range table.Table {
		rows = append(rows, usecase.ExternalStandingRow{
			TeamExternalID: row.Team.ID,
			Position:       row.Position,
			Played:         row.PlayedGames,
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
	return usecase.ExternalStandingTable{Type: table.Type, Rows: rows}
}

func mapMatchPayload(item matchPayload) usecase.ExternalMatch {
	out := usecase.ExternalMatch{
		ExternalID:  item.ID,
		Matchday:    item.Matchday,
		Stage:       item.Stage,
		Group:       item.Group,
		Status:      item.Status,
		Minute:      item.Minute,
		InjuryTime:  item.InjuryTime,
		Attendance:  item.Attendance,
		HomeTeamID:  item.HomeTeam.ID,
		AwayTeamID:  item.AwayTeam.ID,
		HomeScore:   item.Score.FullTime.Home,
		AwayScore:   item.Score.FullTime.Away,
		Winner:      item.Score.Winner,
		Venue:       item.Venue,
		LastUpdated: parseProviderDateTime(item.LastUpdated),
	}
	if kickoff := parseProviderDateTime(item.UTCDate); kickoff != nil {
		out.KickoffAt = *kickoff
	}
	if item.Competition != nil {
		out.CompetitionID = item.Competition.ID
	}
	if item.Season != nil {
		seasonID := item.Season.ID
		out.SeasonID = &seasonID
		if start := parseProviderDate(item.Season.StartDate); start != nil {
			out.SeasonYear = start.Year()
		}
	}
	if len(item.Referees) > 0 {
		out.Referee = item.Referees[0].Name
	}
	return out
}

func mapMatchesEnvelope(envelope matchesEnvelope) []usecase.ExternalMatch {
	out := make([]usecase.ExternalMatch, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapMatchPayload(item))
	}
	return out
}

func parseProviderDateTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	parsed = parsed.UTC()
	return &parsed
}

func parseProviderDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &parsed
}
