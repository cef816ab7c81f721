package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bagaskoro/goalpoll/internal/domain/competition"
	qb "github.com/bagaskoro/goalpoll/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select competitions query: %w", err)
	}

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapCompetitionRow(row))
	}

	return out, nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID int) (competition.Competition, bool, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(
			qb.Eq("id", competitionID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build select competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("select competition id=%d: %w", competitionID, err)
	}

	return mapCompetitionRow(row), true, nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, competitions []competition.Competition) error {
	for _, item := range competitions {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate competition id=%d: %w", item.ID, err)
		}

		model := competitionInsertModel{
			ID:              item.ID,
			Name:            item.Name,
			Code:            item.Code,
			Type:            item.Type,
			AreaName:        item.AreaName,
			AreaCode:        item.AreaCode,
			EmblemURL:       item.EmblemURL,
			CurrentMatchday: intPtrToNullInt64(item.CurrentMatchday),
			Plan:            item.Plan,
			LastUpdatedAt:   item.LastUpdatedAt,
		}

		builder, err := qb.InsertModel("competitions", model)
		if err != nil {
			return fmt.Errorf("build upsert competition query: %w", err)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    code = EXCLUDED.code,
    type = EXCLUDED.type,
    area_name = EXCLUDED.area_name,
    area_code = EXCLUDED.area_code,
    emblem_url = EXCLUDED.emblem_url,
    current_matchday = EXCLUDED.current_matchday,
    plan = EXCLUDED.plan,
    last_updated_at = EXCLUDED.last_updated_at,
    updated_at = NOW(),
    deleted_at = NULL`).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert competition query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert competition id=%d: %w", item.ID, err)
		}
	}

	return nil
}

func mapCompetitionRow(row competitionTableModel) competition.Competition {
	return competition.Competition{
		ID:              row.ID,
		Name:            row.Name,
		Code:            row.Code,
		Type:            row.Type,
		AreaName:        row.AreaName,
		AreaCode:        row.AreaCode,
		EmblemURL:       row.EmblemURL,
		CurrentMatchday: nullInt64ToIntPtr(row.CurrentMatchday),
		Plan:            row.Plan,
		LastUpdatedAt:   nullTimeToTimePtr(row.LastUpdatedAt),
	}
}
