package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bagaskoro/goalpoll/internal/domain/synclog"
	qb "github.com/bagaskoro/goalpoll/internal/platform/querybuilder"
)

// SyncLogRepository is the append-only audit trail of orchestrator runs.
// Rows are never deleted; the only mutation is the running -> completed or
// running -> failed close-out.
type SyncLogRepository struct {
	db *sqlx.DB
}

func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

func (r *SyncLogRepository) Create(ctx context.Context, syncType string) (synclog.Log, error) {
	if !synclog.ValidType(syncType) {
		return synclog.Log{}, fmt.Errorf("unknown sync type %q", syncType)
	}

	query, args, err := qb.InsertInto("sync_logs").
		Columns("sync_type", "status").
		Values(syncType, string(synclog.StatusRunning)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return synclog.Log{}, fmt.Errorf("build insert sync log query: %w", err)
	}

	var row syncLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return synclog.Log{}, fmt.Errorf("insert sync log type=%s: %w", syncType, err)
	}

	return mapSyncLogRow(row), nil
}

func (r *SyncLogRepository) GetByID(ctx context.Context, id int64) (synclog.Log, bool, error) {
	query, args, err := qb.Select("*").From("sync_logs").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return synclog.Log{}, false, fmt.Errorf("build select sync log query: %w", err)
	}

	var row syncLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return synclog.Log{}, false, nil
		}
		return synclog.Log{}, false, fmt.Errorf("select sync log id=%d: %w", id, err)
	}

	return mapSyncLogRow(row), true, nil
}

func (r *SyncLogRepository) ListRecent(ctx context.Context, limit int) ([]synclog.Log, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("*").From("sync_logs").
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent sync logs query: %w", err)
	}

	var rows []syncLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent sync logs: %w", err)
	}

	out := make([]synclog.Log, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSyncLogRow(row))
	}

	return out, nil
}

func (r *SyncLogRepository) MarkCompleted(ctx context.Context, id int64, recordsProcessed int, partialFailures []string) error {
	return r.closeOut(ctx, id, synclog.StatusCompleted, recordsProcessed, "", partialFailures)
}

func (r *SyncLogRepository) MarkFailed(ctx context.Context, id int64, recordsProcessed int, errorMessage string, partialFailures []string) error {
	return r.closeOut(ctx, id, synclog.StatusFailed, recordsProcessed, errorMessage, partialFailures)
}

func (r *SyncLogRepository) closeOut(ctx context.Context, id int64, status synclog.Status, recordsProcessed int, errorMessage string, partialFailures []string) error {
	query, args, err := qb.Update("sync_logs").
		Set("status", string(status)).
		Set("records_processed", recordsProcessed).
		Set("error_message", errorMessage).
		Set("partial_failures", pq.StringArray(partialFailures)).
		SetExpr("completed_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", id),
			qb.Eq("status", string(synclog.StatusRunning)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close out sync log query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("close out sync log id=%d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("close out sync log rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sync log id=%d is not running", id)
	}

	return nil
}
