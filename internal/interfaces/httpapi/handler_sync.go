package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/bagaskoro/goalpoll/internal/domain/synclog"
	"github.com/bagaskoro/goalpoll/internal/usecase"
)

type startSyncRunRequest struct {
	Type           string `json:"type" validate:"required"`
	CompetitionIDs []int  `json:"competitionIds" validate:"omitempty,dive,gt=0"`
	// Wait runs the sync inline and returns the final result instead of
	// detaching. Meant for small runs and tests.
	Wait bool `json:"wait"`
}

type syncRunDTO struct {
	ID               int64      `json:"id"`
	SyncType         string     `json:"syncType"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	RecordsProcessed int        `json:"recordsProcessed"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	PartialFailures  []string   `json:"partialFailures,omitempty"`
}

type startSyncRunResponse struct {
	SyncLogID int64  `json:"syncLogId"`
	Status    string `json:"status"`
}

type cancelSyncRunResponse struct {
	SyncLogID int64 `json:"syncLogId"`
	Cancelled bool  `json:"cancelled"`
}

func (h *Handler) StartSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartSyncRun")
	defer span.End()

	req, err := h.decodeStartSyncRunRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.SyncInput{
		Type:           strings.TrimSpace(req.Type),
		CompetitionIDs: req.CompetitionIDs,
	}

	if req.Wait {
		result, err := h.syncService.Run(ctx, input)
		if err != nil {
			h.logger.WarnContext(ctx, "sync run failed", "sync_type", input.Type, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, result)
		return
	}

	runID, err := h.syncService.Start(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "start sync run failed", "sync_type", input.Type, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, startSyncRunResponse{
		SyncLogID: runID,
		Status:    string(synclog.StatusRunning),
	})
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncRun")
	defer span.End()

	runID, err := pathInt64(r, "runID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.syncService.GetRun(ctx, runID)
	if err != nil {
		h.logger.WarnContext(ctx, "get sync run failed", "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	runs, err := h.syncService.ListRuns(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, syncRunToDTO(run))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CancelSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSyncRun")
	defer span.End()

	runID, err := pathInt64(r, "runID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if !h.syncService.Cancel(runID) {
		writeError(ctx, w, fmt.Errorf("%w: no running sync with id %d", usecase.ErrNotFound, runID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cancelSyncRunResponse{
		SyncLogID: runID,
		Cancelled: true,
	})
}

func (h *Handler) decodeStartSyncRunRequest(r *http.Request) (startSyncRunRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req startSyncRunRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return startSyncRunRequest{}, fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return startSyncRunRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return startSyncRunRequest{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func syncRunToDTO(run synclog.Log) syncRunDTO {
	return syncRunDTO{
		ID:               run.ID,
		SyncType:         run.SyncType,
		Status:           string(run.Status),
		StartedAt:        run.StartedAt,
		CompletedAt:      run.CompletedAt,
		RecordsProcessed: run.RecordsProcessed,
		ErrorMessage:     run.ErrorMessage,
		PartialFailures:  run.PartialFailures,
	}
}
