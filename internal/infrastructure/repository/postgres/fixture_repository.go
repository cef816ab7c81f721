package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
	qb "github.com/bagaskoro/goalpoll/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListByCompetition(ctx context.Context, competitionID int) ([]fixture.Fixture, error) {
	return r.list(ctx,
		qb.Eq("competition_id", competitionID),
		qb.IsNull("deleted_at"),
	)
}

func (r *FixtureRepository) ListByCompetitionMatchday(ctx context.Context, competitionID, matchday int) ([]fixture.Fixture, error) {
	return r.list(ctx,
		qb.Eq("competition_id", competitionID),
		qb.Eq("matchday", matchday),
		qb.IsNull("deleted_at"),
	)
}

func (r *FixtureRepository) list(ctx context.Context, conditions ...qb.Condition) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(conditions...).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:            row.ID,
			CompetitionID: row.CompetitionID,
			SeasonID:      nullInt64ToIntPtr(row.SeasonID),
			Matchday:      row.Matchday,
			Stage:         row.Stage,
			Group:         row.GroupName,
			HomeTeamID:    row.HomeTeamID,
			AwayTeamID:    row.AwayTeamID,
			KickoffAt:     row.KickoffAt,
			Status:        row.Status,
			Minute:        nullInt64ToIntPtr(row.Minute),
			InjuryTime:    nullInt64ToIntPtr(row.InjuryTime),
			Attendance:    nullInt64ToIntPtr(row.Attendance),
			HomeScore:     nullInt64ToIntPtr(row.HomeScore),
			AwayScore:     nullInt64ToIntPtr(row.AwayScore),
			Winner:        row.Winner,
			Venue:         row.Venue,
			Referee:       row.Referee,
			LastUpdatedAt: nullTimeToTimePtr(row.LastUpdatedAt),
		})
	}

	return out, nil
}

// Upsert writes fixtures by provider id. Existing rows outside the incoming
// batch are left untouched, so past matchdays accumulate across syncs.
func (r *FixtureRepository) Upsert(ctx context.Context, fixtures []fixture.Fixture) error {
	for _, item := range fixtures {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate fixture id=%d: %w", item.ID, err)
		}

		model := fixtureInsertModel{
			ID:            item.ID,
			CompetitionID: item.CompetitionID,
			SeasonID:      intPtrToNullInt64(item.SeasonID),
			Matchday:      item.Matchday,
			Stage:         item.Stage,
			GroupName:     item.Group,
			HomeTeamID:    item.HomeTeamID,
			AwayTeamID:    item.AwayTeamID,
			KickoffAt:     item.KickoffAt,
			Status:        fixture.NormalizeStatus(item.Status),
			Minute:        intPtrToNullInt64(item.Minute),
			InjuryTime:    intPtrToNullInt64(item.InjuryTime),
			Attendance:    intPtrToNullInt64(item.Attendance),
			HomeScore:     intPtrToNullInt64(item.HomeScore),
			AwayScore:     intPtrToNullInt64(item.AwayScore),
			Winner:        item.Winner,
			Venue:         item.Venue,
			Referee:       item.Referee,
			LastUpdatedAt: item.LastUpdatedAt,
		}

		builder, err := qb.InsertModel("fixtures", model)
		if err != nil {
			return fmt.Errorf("build upsert fixture query: %w", err)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (id)
DO UPDATE SET
    competition_id = EXCLUDED.competition_id,
    season_id = EXCLUDED.season_id,
    matchday = EXCLUDED.matchday,
    stage = EXCLUDED.stage,
    group_name = EXCLUDED.group_name,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = EXCLUDED.kickoff_at,
    status = EXCLUDED.status,
    minute = EXCLUDED.minute,
    injury_time = EXCLUDED.injury_time,
    attendance = EXCLUDED.attendance,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    winner = EXCLUDED.winner,
    venue = EXCLUDED.venue,
    referee = EXCLUDED.referee,
    last_updated_at = EXCLUDED.last_updated_at,
    updated_at = NOW(),
    deleted_at = NULL`).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert fixture query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixture id=%d: %w", item.ID, err)
		}
	}

	return nil
}
