package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bagaskoro/goalpoll/internal/domain/synclog"
)

type SyncLogRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]synclog.Log
}

func NewSyncLogRepository() *SyncLogRepository {
	return &SyncLogRepository{byID: make(map[int64]synclog.Log)}
}

func (r *SyncLogRepository) Create(_ context.Context, syncType string) (synclog.Log, error) {
	entry := synclog.Log{
		SyncType:  syncType,
		Status:    synclog.StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return synclog.Log{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	r.byID[entry.ID] = entry

	return entry, nil
}

func (r *SyncLogRepository) GetByID(_ context.Context, id int64) (synclog.Log, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byID[id]
	return entry, ok, nil
}

func (r *SyncLogRepository) ListRecent(_ context.Context, limit int) ([]synclog.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]synclog.Log, 0, len(r.byID))
	for _, entry := range r.byID {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *SyncLogRepository) MarkCompleted(_ context.Context, id int64, recordsProcessed int, partialFailures []string) error {
	return r.closeOut(id, synclog.StatusCompleted, recordsProcessed, "", partialFailures)
}

func (r *SyncLogRepository) MarkFailed(_ context.Context, id int64, recordsProcessed int, errorMessage string, partialFailures []string) error {
	return r.closeOut(id, synclog.StatusFailed, recordsProcessed, errorMessage, partialFailures)
}

func (r *SyncLogRepository) closeOut(id int64, status synclog.Status, recordsProcessed int, errorMessage string, partialFailures []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("sync log %d not found", id)
	}
	if entry.Status != synclog.StatusRunning {
		return fmt.Errorf("sync log %d already closed with status %s", id, entry.Status)
	}

	now := time.Now().UTC()
	entry.Status = status
	entry.CompletedAt = &now
	entry.RecordsProcessed = recordsProcessed
	entry.ErrorMessage = errorMessage
	entry.PartialFailures = append([]string(nil), partialFailures...)
	r.byID[id] = entry

	return nil
}
