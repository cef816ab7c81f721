package httpapi

import (
	"net/http"
	"time"

	"github.com/bagaskoro/goalpoll/internal/domain/competition"
	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
	"github.com/bagaskoro/goalpoll/internal/domain/headtohead"
	"github.com/bagaskoro/goalpoll/internal/domain/standing"
	"github.com/bagaskoro/goalpoll/internal/domain/team"
)

type competitionDTO struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Code            string     `json:"code,omitempty"`
	Type            string     `json:"type,omitempty"`
	AreaName        string     `json:"areaName,omitempty"`
	AreaCode        string     `json:"areaCode,omitempty"`
	EmblemURL       string     `json:"emblemUrl,omitempty"`
	CurrentMatchday *int       `json:"currentMatchday,omitempty"`
	Plan            string     `json:"plan,omitempty"`
	LastUpdatedAt   *time.Time `json:"lastUpdatedAt,omitempty"`
}

type teamDTO struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	ShortName        string     `json:"shortName,omitempty"`
	TLA              string     `json:"tla,omitempty"`
	CrestURL         string     `json:"crestUrl,omitempty"`
	Address          string     `json:"address,omitempty"`
	Website          string     `json:"website,omitempty"`
	Founded          *int       `json:"founded,omitempty"`
	ClubColors       string     `json:"clubColors,omitempty"`
	Venue            string     `json:"venue,omitempty"`
	CoachName        string     `json:"coachName,omitempty"`
	CoachNationality string     `json:"coachNationality,omitempty"`
	LeagueRank       *int       `json:"leagueRank,omitempty"`
	LastUpdatedAt    *time.Time `json:"lastUpdatedAt,omitempty"`
}

type standingDTO struct {
	CompetitionID  int    `json:"competitionId"`
	TeamID         int    `json:"teamId"`
	Position       int    `json:"position"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	Points         int    `json:"points"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Form           string `json:"form,omitempty"`
}

type fixtureDTO struct {
	ID            int       `json:"id"`
	CompetitionID int       `json:"competitionId"`
	SeasonID      *int      `json:"seasonId,omitempty"`
	Matchday      int       `json:"matchday"`
	Stage         string    `json:"stage,omitempty"`
	Group         string    `json:"group,omitempty"`
	HomeTeamID    int       `json:"homeTeamId"`
	AwayTeamID    int       `json:"awayTeamId"`
	KickoffAt     time.Time `json:"kickoffAt"`
	Status        string    `json:"status"`
	Minute        *int      `json:"minute,omitempty"`
	InjuryTime    *int      `json:"injuryTime,omitempty"`
	Attendance    *int      `json:"attendance,omitempty"`
	HomeScore     *int      `json:"homeScore,omitempty"`
	AwayScore     *int      `json:"awayScore,omitempty"`
	Winner        string    `json:"winner,omitempty"`
	Venue         string    `json:"venue,omitempty"`
	Referee       string    `json:"referee,omitempty"`
}

type headToHeadMatchDTO struct {
	MatchID       int       `json:"matchId"`
	CompetitionID int       `json:"competitionId"`
	SeasonYear    int       `json:"seasonYear,omitempty"`
	HomeTeamID    int       `json:"homeTeamId"`
	AwayTeamID    int       `json:"awayTeamId"`
	KickoffAt     time.Time `json:"kickoffAt"`
	HomeScore     *int      `json:"homeScore,omitempty"`
	AwayScore     *int      `json:"awayScore,omitempty"`
	Status        string    `json:"status,omitempty"`
	Winner        string    `json:"winner,omitempty"`
	Venue         string    `json:"venue,omitempty"`
}

type teamFormDTO struct {
	TeamID int    `json:"teamId"`
	Form   string `json:"form"`
}

type currentMatchdayDTO struct {
	CompetitionID   int `json:"competitionId"`
	CurrentMatchday int `json:"currentMatchday"`
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	competitions, err := h.readService.GetCompetitions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]competitionDTO, 0, len(competitions))
	for _, c := range competitions {
		items = append(items, competitionToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	competitionID, err := pathInt(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	comp, err := h.readService.GetCompetition(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get competition failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(comp))
}

func (h *Handler) ListTeamsByCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByCompetition")
	defer span.End()

	competitionID, err := pathInt(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.readService.GetTeams(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListStandingsByCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandingsByCompetition")
	defer span.End()

	competitionID, err := pathInt(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.readService.GetStandings(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFixturesByCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByCompetition")
	defer span.End()

	competitionID, err := pathInt(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchday, err := queryIntPtr(r, "matchday")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.readService.GetFixtures(ctx, competitionID, matchday)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSmartCurrentMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSmartCurrentMatchday")
	defer span.End()

	competitionID, err := pathInt(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchday, err := h.readService.GetSmartCurrentMatchday(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get current matchday failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, currentMatchdayDTO{
		CompetitionID:   competitionID,
		CurrentMatchday: matchday,
	})
}

func (h *Handler) GetTeamForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamForm")
	defer span.End()

	teamID, err := pathInt(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	form, err := h.readService.GetTeamForm(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team form failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamFormDTO{TeamID: teamID, Form: form})
}

func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHeadToHead")
	defer span.End()

	teamID, err := pathInt(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	otherTeamID, err := pathInt(r, "otherTeamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.readService.GetHeadToHead(ctx, teamID, otherTeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get head-to-head failed", "team_id", teamID, "other_team_id", otherTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]headToHeadMatchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, headToHeadMatchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func competitionToDTO(c competition.Competition) competitionDTO {
	return competitionDTO{
		ID:              c.ID,
		Name:            c.Name,
		Code:            c.Code,
		Type:            c.Type,
		AreaName:        c.AreaName,
		AreaCode:        c.AreaCode,
		EmblemURL:       c.EmblemURL,
		CurrentMatchday: c.CurrentMatchday,
		Plan:            c.Plan,
		LastUpdatedAt:   c.LastUpdatedAt,
	}
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:               t.ID,
		Name:             t.Name,
		ShortName:        t.ShortName,
		TLA:              t.TLA,
		CrestURL:         t.CrestURL,
		Address:          t.Address,
		Website:          t.Website,
		Founded:          t.Founded,
		ClubColors:       t.ClubColors,
		Venue:            t.Venue,
		CoachName:        t.CoachName,
		CoachNationality: t.CoachNationality,
		LeagueRank:       t.LeagueRank,
		LastUpdatedAt:    t.LastUpdatedAt,
	}
}

func standingToDTO(s standing.Standing) standingDTO {
	return standingDTO{
		CompetitionID:  s.CompetitionID,
		TeamID:         s.TeamID,
		Position:       s.Position,
		Played:         s.Played,
		Won:            s.Won,
		Draw:           s.Draw,
		Lost:           s.Lost,
		Points:         s.Points,
		GoalsFor:       s.GoalsFor,
		GoalsAgainst:   s.GoalsAgainst,
		GoalDifference: s.GoalDifference,
		Form:           s.Form,
	}
}

func fixtureToDTO(f fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:            f.ID,
		CompetitionID: f.CompetitionID,
		SeasonID:      f.SeasonID,
		Matchday:      f.Matchday,
		Stage:         f.Stage,
		Group:         f.Group,
		HomeTeamID:    f.HomeTeamID,
		AwayTeamID:    f.AwayTeamID,
		KickoffAt:     f.KickoffAt,
		Status:        f.Status,
		Minute:        f.Minute,
		InjuryTime:    f.InjuryTime,
		Attendance:    f.Attendance,
		HomeScore:     f.HomeScore,
		AwayScore:     f.AwayScore,
		Winner:        f.Winner,
		Venue:         f.Venue,
		Referee:       f.Referee,
	}
}

func headToHeadMatchToDTO(m headtohead.Match) headToHeadMatchDTO {
	return headToHeadMatchDTO{
		MatchID:       m.MatchID,
		CompetitionID: m.CompetitionID,
		SeasonYear:    m.SeasonYear,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		KickoffAt:     m.KickoffAt,
		HomeScore:     m.HomeScore,
		AwayScore:     m.AwayScore,
		Status:        m.Status,
		Winner:        m.Winner,
		Venue:         m.Venue,
	}
}
