package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/bagaskoro/goalpoll/internal/domain/standing"
	qb "github.com/bagaskoro/goalpoll/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListByCompetition(ctx context.Context, competitionID int) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(
			qb.Eq("competition_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position", "points DESC", "goal_difference DESC", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings competition=%d: %w", competitionID, err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			CompetitionID:  row.CompetitionID,
			TeamID:         row.TeamID,
			Position:       row.Position,
			Played:         row.Played,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Form:           strings.TrimSpace(row.Form),
			LastUpdatedAt:  nullTimeToTimePtr(row.LastUpdatedAt),
		})
	}

	return out, nil
}

// ReplaceByCompetition swaps the whole table snapshot in one transaction:
// the previous rows are soft-deleted and the incoming rows re-inserted, so
// readers never observe a mix of old and new positions.
func (r *StandingRepository) ReplaceByCompetition(ctx context.Context, competitionID int, standings []standing.Standing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("standings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("competition_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standings competition=%d: %w", competitionID, err)
	}

	for _, item := range standings {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate standing team=%d: %w", item.TeamID, err)
		}

		model := standingInsertModel{
			CompetitionID:  competitionID,
			TeamID:         item.TeamID,
			Position:       item.Position,
			Played:         item.Played,
			Won:            item.Won,
			Draw:           item.Draw,
			Lost:           item.Lost,
			Points:         item.Points,
			GoalsFor:       item.GoalsFor,
			GoalsAgainst:   item.GoalsAgainst,
			GoalDifference: item.GoalDifference,
			Form:           strings.TrimSpace(item.Form),
			LastUpdatedAt:  item.LastUpdatedAt,
		}

		builder, err := qb.InsertModel("standings", model)
		if err != nil {
			return fmt.Errorf("build upsert standing query: %w", err)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (competition_id, team_id) WHERE deleted_at IS NULL
DO UPDATE SET
    position = EXCLUDED.position,
    played = EXCLUDED.played,
    won = EXCLUDED.won,
    draw = EXCLUDED.draw,
    lost = EXCLUDED.lost,
    points = EXCLUDED.points,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    goal_difference = EXCLUDED.goal_difference,
    form = EXCLUDED.form,
    last_updated_at = EXCLUDED.last_updated_at,
    updated_at = NOW(),
    deleted_at = NULL`).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert standing query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert standing competition=%d team=%d: %w", competitionID, item.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}

func (r *StandingRepository) UpdateForm(ctx context.Context, competitionID, teamID int, form string) error {
	query, args, err := qb.Update("standings").
		Set("form", strings.TrimSpace(form)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("competition_id", competitionID),
			qb.Eq("team_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update standing form query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update standing form competition=%d team=%d: %w", competitionID, teamID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update standing form rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("standing competition=%d team=%d not found", competitionID, teamID)
	}

	return nil
}
