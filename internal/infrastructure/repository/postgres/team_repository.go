package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bagaskoro/goalpoll/internal/domain/team"
	qb "github.com/bagaskoro/goalpoll/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	return mapTeamRows(rows), nil
}

// ListByCompetition derives membership from the current standings snapshot
// plus any fixtures of the competition, since a team row is shared across
// competitions.
func (r *TeamRepository) ListByCompetition(ctx context.Context, competitionID int) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Expr(`id IN (
    SELECT team_id FROM standings WHERE competition_id = ? AND deleted_at IS NULL
    UNION
    SELECT home_team_id FROM fixtures WHERE competition_id = ? AND deleted_at IS NULL
    UNION
    SELECT away_team_id FROM fixtures WHERE competition_id = ? AND deleted_at IS NULL
)`, competitionID, competitionID, competitionID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by competition query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by competition id=%d: %w", competitionID, err)
	}

	return mapTeamRows(rows), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("id", teamID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team id=%d: %w", teamID, err)
	}

	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, teams []team.Team) error {
	for _, item := range teams {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate team id=%d: %w", item.ID, err)
		}

		model := teamInsertModel{
			ID:               item.ID,
			Name:             item.Name,
			ShortName:        item.ShortName,
			TLA:              item.TLA,
			CrestURL:         item.CrestURL,
			Address:          item.Address,
			Website:          item.Website,
			Founded:          intPtrToNullInt64(item.Founded),
			ClubColors:       item.ClubColors,
			Venue:            item.Venue,
			CoachName:        item.CoachName,
			CoachNationality: item.CoachNationality,
			LeagueRank:       intPtrToNullInt64(item.LeagueRank),
			LastUpdatedAt:    item.LastUpdatedAt,
		}

		builder, err := qb.InsertModel("teams", model)
		if err != nil {
			return fmt.Errorf("build upsert team query: %w", err)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    tla = EXCLUDED.tla,
    crest_url = EXCLUDED.crest_url,
    address = EXCLUDED.address,
    website = EXCLUDED.website,
    founded = EXCLUDED.founded,
    club_colors = EXCLUDED.club_colors,
    venue = EXCLUDED.venue,
    coach_name = EXCLUDED.coach_name,
    coach_nationality = EXCLUDED.coach_nationality,
    league_rank = EXCLUDED.league_rank,
    last_updated_at = EXCLUDED.last_updated_at,
    updated_at = NOW(),
    deleted_at = NULL`).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert team query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team id=%d: %w", item.ID, err)
		}
	}

	return nil
}

func mapTeamRows(rows []teamTableModel) []team.Team {
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}
	return out
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:               row.ID,
		Name:             row.Name,
		ShortName:        row.ShortName,
		TLA:              row.TLA,
		CrestURL:         row.CrestURL,
		Address:          row.Address,
		Website:          row.Website,
		Founded:          nullInt64ToIntPtr(row.Founded),
		ClubColors:       row.ClubColors,
		Venue:            row.Venue,
		CoachName:        row.CoachName,
		CoachNationality: row.CoachNationality,
		LeagueRank:       nullInt64ToIntPtr(row.LeagueRank),
		LastUpdatedAt:    nullTimeToTimePtr(row.LastUpdatedAt),
	}
}
