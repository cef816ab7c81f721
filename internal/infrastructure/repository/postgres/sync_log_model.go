package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/bagaskoro/goalpoll/internal/domain/synclog"
)

type syncLogTableModel struct {
	ID               int64          `db:"id"`
	SyncType         string         `db:"sync_type"`
	Status           string         `db:"status"`
	StartedAt        time.Time      `db:"started_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
	RecordsProcessed int            `db:"records_processed"`
	ErrorMessage     string         `db:"error_message"`
	PartialFailures  pq.StringArray `db:"partial_failures"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func mapSyncLogRow(row syncLogTableModel) synclog.Log {
	return synclog.Log{
		ID:               row.ID,
		SyncType:         row.SyncType,
		Status:           synclog.Status(row.Status),
		StartedAt:        row.StartedAt,
		CompletedAt:      nullTimeToTimePtr(row.CompletedAt),
		RecordsProcessed: row.RecordsProcessed,
		ErrorMessage:     row.ErrorMessage,
		PartialFailures:  append([]string(nil), row.PartialFailures...),
	}
}
