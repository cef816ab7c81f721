package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/bagaskoro/goalpoll/internal/domain/synclog"
	"github.com/bagaskoro/goalpoll/internal/platform/cache"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
)

// syncLogCloseOutTimeout bounds the detached close-out write after a
// run ends.
const syncLogCloseOutTimeout = 10 * time.Second

type SyncInput struct {
	Type           string
	CompetitionIDs []int
}

type SyncResult struct {
	SyncLogID         int64    `json:"syncLogId"`
	Status            string   `json:"status"`
	RecordsProcessed  int      `json:"recordsProcessed"`
	CompetitionsCount int      `json:"competitionsCount"`
	PartialFailures   []string `json:"partialFailures,omitempty"`
}

type SyncOrchestratorConfig struct {
	// CompetitionDelay is inserted between competitions regardless of
	// whether calls were made, as a conservative rate budget buffer.
	CompetitionDelay time.Duration
	// BrazilCompetitionID scopes the brazil-standings alias.
	BrazilCompetitionID int
	// RunTimeout caps a detached run. Head-to-head over many teams can
	// legitimately run for hours.
	RunTimeout time.Duration
}

func (c SyncOrchestratorConfig) normalized() SyncOrchestratorConfig {
	if c.CompetitionDelay <= 0 {
		c.CompetitionDelay = 6 * time.Second
	}
	if c.BrazilCompetitionID <= 0 {
		c.BrazilCompetitionID = 2013
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 6 * time.Hour
	}
	return c
}

// SyncOrchestratorService sequences the entity synchronizers for one
// run and records the run in the sync log. Runs move running ->
// completed or running -> failed; per-competition failures are recorded
// as partial failures and skipped, never fatal to the run.
type SyncOrchestratorService struct {
	syncService *SyncService
	syncLogRepo synclog.Repository
	pool        *ants.Pool
	store       *cache.Store
	cfg         SyncOrchestratorConfig
	logger      *logging.Logger

	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
}

func NewSyncOrchestratorService(
	syncService *SyncService,
	syncLogRepo synclog.Repository,
	pool *ants.Pool,
	store *cache.Store,
	cfg SyncOrchestratorConfig,
	logger *logging.Logger,
) *SyncOrchestratorService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncOrchestratorService{
		syncService: syncService,
		syncLogRepo: syncLogRepo,
		pool:        pool,
		store:       store,
		cfg:         cfg.normalized(),
		logger:      logger,
		cancels:     make(map[int64]context.CancelFunc),
	}
}

// Run executes a sync inline and blocks until it finishes. Long runs
// should go through Start instead.
func (s *SyncOrchestratorService) Run(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestratorService.Run")
	defer span.End()

	input, err := s.normalizeInput(input)
	if err != nil {
		return SyncResult{}, err
	}

	logEntry, err := s.syncLogRepo.Create(ctx, input.Type)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create sync log type=%s: %w", input.Type, err)
	}

	return s.execute(ctx, logEntry.ID, input)
}

// Start executes a sync detached from the caller's request lifetime.
// The caller gets the sync log id immediately and polls the log; the
// run can be cancelled through Cancel.
func (s *SyncOrchestratorService) Start(ctx context.Context, input SyncInput) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestratorService.Start")
	defer span.End()

	input, err := s.normalizeInput(input)
	if err != nil {
		return 0, err
	}
	if s.pool == nil {
		return 0, fmt.Errorf("%w: sync worker pool is not configured", ErrDependencyUnavailable)
	}

	logEntry, err := s.syncLogRepo.Create(ctx, input.Type)
	if err != nil {
		return 0, fmt.Errorf("create sync log type=%s: %w", input.Type, err)
	}

	runCtx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	s.mu.Lock()
	s.cancels[logEntry.ID] = cancel
	s.mu.Unlock()

	if err := s.pool.Submit(func() {
		defer s.forgetRun(logEntry.ID)
		if _, err := s.execute(runCtx, logEntry.ID, input); err != nil {
			s.logger.ErrorContext(runCtx, "detached sync run failed", "sync_log_id", logEntry.ID, "sync_type", input.Type, "error", err)
		}
	}); err != nil {
		s.forgetRun(logEntry.ID)
		s.closeOutFailed(context.Background(), logEntry.ID, 0, nil, err)
		return 0, fmt.Errorf("submit sync run sync_log_id=%d: %w", logEntry.ID, err)
	}

	return logEntry.ID, nil
}

// Cancel stops a detached run between competitions. It reports whether
// the run was still active.
func (s *SyncOrchestratorService) Cancel(runID int64) bool {
	s.mu.Lock()
	cancel, ok := s.cancels[runID]
	delete(s.cancels, runID)
	s.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}

func (s *SyncOrchestratorService) GetRun(ctx context.Context, runID int64) (synclog.Log, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestratorService.GetRun")
	defer span.End()

	logEntry, found, err := s.syncLogRepo.GetByID(ctx, runID)
	if err != nil {
		return synclog.Log{}, fmt.Errorf("get sync log sync_log_id=%d: %w", runID, err)
	}
	if !found {
		return synclog.Log{}, fmt.Errorf("%w: sync log %d", ErrNotFound, runID)
	}

	return logEntry, nil
}

func (s *SyncOrchestratorService) ListRuns(ctx context.Context, limit int) ([]synclog.Log, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestratorService.ListRuns")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	logs, err := s.syncLogRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync logs: %w", err)
	}

	return logs, nil
}

func (s *SyncOrchestratorService) forgetRun(runID int64) {
	s.mu.Lock()
	cancel, ok := s.cancels[runID]
	delete(s.cancels, runID)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// normalizeInput validates the sync type and resolves the
// brazil-standings alias to a scoped standings run.
func (s *SyncOrchestratorService) normalizeInput(input SyncInput) (SyncInput, error) {
	if !synclog.ValidType(input.Type) {
		return SyncInput{}, fmt.Errorf("%w: unknown sync type %q", ErrInvalidInput, input.Type)
	}
	for _, id := range input.CompetitionIDs {
		if id <= 0 {
			return SyncInput{}, fmt.Errorf("%w: competition id must be positive, got %d", ErrInvalidInput, id)
		}
	}
	if input.Type == synclog.TypeBrazilStandings {
		input.Type = synclog.TypeStandings
		if len(input.CompetitionIDs) == 0 {
			input.CompetitionIDs = []int{s.cfg.BrazilCompetitionID}
		}
	}

	return input, nil
}

// execute runs the state machine body and closes out the sync log. Log
// bookkeeping failures are logged separately and never mask the run
// error.
func (s *SyncOrchestratorService) execute(ctx context.Context, runID int64, input SyncInput) (SyncResult, error) {
	records, competitionsCount, partials, runErr := s.runSynchronizers(ctx, runID, input)

	// Close-out must survive the run context: after a Cancel or a
	// RunTimeout expiry ctx is already dead, and writing with it would
	// strand the log row in running.
	closeCtx, cancelClose := context.WithTimeout(context.WithoutCancel(ctx), syncLogCloseOutTimeout)
	defer cancelClose()

	// Even a failed run may have landed rows before it stopped.
	s.invalidateReadCache(closeCtx, input.Type, records)

	if runErr != nil {
		s.closeOutFailed(closeCtx, runID, records, partials, runErr)
		return SyncResult{
			SyncLogID:         runID,
			Status:            string(synclog.StatusFailed),
			RecordsProcessed:  records,
			CompetitionsCount: competitionsCount,
			PartialFailures:   partials,
		}, runErr
	}

	if err := s.syncLogRepo.MarkCompleted(closeCtx, runID, records, partials); err != nil {
		s.logger.ErrorContext(closeCtx, "mark sync log completed failed", "sync_log_id", runID, "error", err)
	}

	return SyncResult{
		SyncLogID:         runID,
		Status:            string(synclog.StatusCompleted),
		RecordsProcessed:  records,
		CompetitionsCount: competitionsCount,
		PartialFailures:   partials,
	}, nil
}

// invalidateReadCache drops the memoized reads a run may have
// refreshed, so polling frontends see synced rows before the TTL runs
// out.
func (s *SyncOrchestratorService) invalidateReadCache(ctx context.Context, syncType string, records int) {
	if s.store == nil || records == 0 {
		return
	}

	switch syncType {
	case synclog.TypeHeadToHead:
		s.store.DeletePrefix(ctx, "h2h:")
	default:
		s.store.DeletePrefix(ctx, "competitions")
		s.store.DeletePrefix(ctx, "teams:")
	}
}

func (s *SyncOrchestratorService) closeOutFailed(ctx context.Context, runID int64, records int, partials []string, runErr error) {
	if err := s.syncLogRepo.MarkFailed(ctx, runID, records, runErr.Error(), partials); err != nil {
		s.logger.ErrorContext(ctx, "mark sync log failed failed", "sync_log_id", runID, "error", err, "run_error", runErr)
	}
}

func (s *SyncOrchestratorService) runSynchronizers(ctx context.Context, runID int64, input SyncInput) (records, competitionsCount int, partials []string, err error) {
	started := time.Now()
	s.logger.InfoContext(ctx, "sync run started", "sync_log_id", runID, "sync_type", input.Type, "competition_ids", input.CompetitionIDs)
	defer func() {
		s.logger.InfoContext(ctx, "sync run finished",
			"sync_log_id", runID,
			"sync_type", input.Type,
			"records_processed", records,
			"competitions_count", competitionsCount,
			"partial_failures", len(partials),
			"duration_ms", time.Since(started).Milliseconds(),
			"error", err,
		)
	}()

	// Cross-cutting synchronizers run once, not per competition.
	switch input.Type {
	case synclog.TypeHeadToHead:
		records, err = s.syncService.SyncHeadToHead(ctx)
		if err != nil {
			err = fmt.Errorf("head-to-head sync: %w", err)
		}
		return records, 0, nil, err
	case synclog.TypeTeamForm:
		records, err = s.syncService.SyncTeamForm(ctx)
		if err != nil {
			err = fmt.Errorf("team form sync: %w", err)
		}
		return records, 0, nil, err
	}

	if input.Type == synclog.TypeAll || input.Type == synclog.TypeCompetitions {
		count, syncErr := s.syncService.SyncCompetitions(ctx)
		if syncErr != nil {
			return records, 0, nil, fmt.Errorf("competitions sync: %w", syncErr)
		}
		records += count
		if input.Type == synclog.TypeCompetitions {
			return records, count, nil, nil
		}
	}

	competitionIDs, err := s.resolveCompetitionIDs(ctx, input)
	if err != nil {
		return records, 0, nil, err
	}
	competitionsCount = len(competitionIDs)

	for i, competitionID := range competitionIDs {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				return records, competitionsCount, partials, fmt.Errorf("sync run cancelled: %w", err)
			}
		}

		count, entityErrs := s.syncCompetition(ctx, input.Type, competitionID)
		records += count
		for _, entityErr := range entityErrs {
			s.logger.WarnContext(ctx, "partial sync failure",
				"sync_log_id", runID,
				"competition_id", competitionID,
				"error", entityErr,
			)
			partials = append(partials, entityErr.Error())
		}
	}

	return records, competitionsCount, partials, nil
}

// resolveCompetitionIDs picks the competition set for the run: explicit
// ids win; otherwise the cached list; a cold cache falls back to a
// fresh provider sync.
func (s *SyncOrchestratorService) resolveCompetitionIDs(ctx context.Context, input SyncInput) ([]int, error) {
	if len(input.CompetitionIDs) > 0 && input.Type != synclog.TypeAll {
		ids := append([]int(nil), input.CompetitionIDs...)
		sort.Ints(ids)
		return ids, nil
	}

	competitions, err := s.syncService.competitionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cached competitions: %w", err)
	}
	if len(competitions) == 0 {
		if _, err := s.syncService.SyncCompetitions(ctx); err != nil {
			return nil, fmt.Errorf("refresh competitions for empty cache: %w", err)
		}
		competitions, err = s.syncService.competitionRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list competitions after refresh: %w", err)
		}
	}

	ids := make([]int, 0, len(competitions))
	for _, comp := range competitions {
		ids = append(ids, comp.ID)
	}
	sort.Ints(ids)
	return ids, nil
}

// syncCompetition runs the subset of per-competition synchronizers for
// the requested type. Each entity failure is isolated.
func (s *SyncOrchestratorService) syncCompetition(ctx context.Context, syncType string, competitionID int) (int, []error) {
	type entitySync struct {
		name string
		run  func(context.Context, int) (int, error)
	}

	var entities []entitySync
	if syncType == synclog.TypeAll || syncType == synclog.TypeTeams {
		entities = append(entities, entitySync{"teams", s.syncService.SyncTeams})
	}
	if syncType == synclog.TypeAll || syncType == synclog.TypeStandings {
		entities = append(entities, entitySync{"standings", s.syncService.SyncStandings})
	}
	if syncType == synclog.TypeAll || syncType == synclog.TypeFixtures {
		entities = append(entities, entitySync{"fixtures", s.syncService.SyncFixtures})
	}

	records := 0
	var failures []error
	for _, entity := range entities {
		count, err := entity.run(ctx, competitionID)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s sync competition_id=%d: %w", entity.name, competitionID, err))
			continue
		}
		records += count
	}

	return records, failures
}

func (s *SyncOrchestratorService) pause(ctx context.Context) error {
	timer := time.NewTimer(s.cfg.CompetitionDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
