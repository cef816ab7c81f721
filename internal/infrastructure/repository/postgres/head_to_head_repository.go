package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bagaskoro/goalpoll/internal/domain/headtohead"
	qb "github.com/bagaskoro/goalpoll/internal/platform/querybuilder"
)

type HeadToHeadRepository struct {
	db *sqlx.DB
}

func NewHeadToHeadRepository(db *sqlx.DB) *HeadToHeadRepository {
	return &HeadToHeadRepository{db: db}
}

func (r *HeadToHeadRepository) ListByPair(ctx context.Context, pair headtohead.Pair) ([]headtohead.Match, error) {
	if err := pair.Validate(); err != nil {
		return nil, fmt.Errorf("validate head-to-head pair: %w", err)
	}

	query, args, err := qb.Select("*").From("head_to_head_matches").
		Where(
			qb.Eq("team_low_id", pair.TeamLowID),
			qb.Eq("team_high_id", pair.TeamHighID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at DESC", "match_id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select head-to-head query: %w", err)
	}

	var rows []headToHeadTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select head-to-head pair=%d-%d: %w", pair.TeamLowID, pair.TeamHighID, err)
	}

	out := make([]headtohead.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, headtohead.Match{
			Pair:          headtohead.Pair{TeamLowID: row.TeamLowID, TeamHighID: row.TeamHighID},
			MatchID:       row.MatchID,
			CompetitionID: row.CompetitionID,
			SeasonYear:    row.SeasonYear,
			HomeTeamID:    row.HomeTeamID,
			AwayTeamID:    row.AwayTeamID,
			KickoffAt:     row.KickoffAt,
			HomeScore:     nullInt64ToIntPtr(row.HomeScore),
			AwayScore:     nullInt64ToIntPtr(row.AwayScore),
			Status:        row.Status,
			Winner:        row.Winner,
			Venue:         row.Venue,
			LastUpdatedAt: nullTimeToTimePtr(row.LastUpdatedAt),
		})
	}

	return out, nil
}

func (r *HeadToHeadRepository) Upsert(ctx context.Context, matches []headtohead.Match) error {
	for _, item := range matches {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate head-to-head match id=%d: %w", item.MatchID, err)
		}

		model := headToHeadInsertModel{
			TeamLowID:     item.Pair.TeamLowID,
			TeamHighID:    item.Pair.TeamHighID,
			MatchID:       item.MatchID,
			CompetitionID: item.CompetitionID,
			SeasonYear:    item.SeasonYear,
			HomeTeamID:    item.HomeTeamID,
			AwayTeamID:    item.AwayTeamID,
			KickoffAt:     item.KickoffAt,
			HomeScore:     intPtrToNullInt64(item.HomeScore),
			AwayScore:     intPtrToNullInt64(item.AwayScore),
			Status:        item.Status,
			Winner:        item.Winner,
			Venue:         item.Venue,
			LastUpdatedAt: item.LastUpdatedAt,
		}

		builder, err := qb.InsertModel("head_to_head_matches", model)
		if err != nil {
			return fmt.Errorf("build upsert head-to-head query: %w", err)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (team_low_id, team_high_id, match_id) WHERE deleted_at IS NULL
DO UPDATE SET
    competition_id = EXCLUDED.competition_id,
    season_year = EXCLUDED.season_year,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = EXCLUDED.kickoff_at,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    winner = EXCLUDED.winner,
    venue = EXCLUDED.venue,
    last_updated_at = EXCLUDED.last_updated_at,
    updated_at = NOW(),
    deleted_at = NULL`).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert head-to-head query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert head-to-head match=%d pair=%d-%d: %w", item.MatchID, item.Pair.TeamLowID, item.Pair.TeamHighID, err)
		}
	}

	return nil
}
