package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/panjf2000/ants/v2"

	"github.com/bagaskoro/goalpoll/external/footballdata"
	"github.com/bagaskoro/goalpoll/internal/config"
	"github.com/bagaskoro/goalpoll/internal/infrastructure/repository/postgres"
	"github.com/bagaskoro/goalpoll/internal/interfaces/httpapi"
	"github.com/bagaskoro/goalpoll/internal/observability"
	"github.com/bagaskoro/goalpoll/internal/platform/cache"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
	"github.com/bagaskoro/goalpoll/internal/platform/resilience"
	"github.com/bagaskoro/goalpoll/internal/usecase"
)

const pprofStopTimeout = 5 * time.Second

// App owns the HTTP server plus every resource that needs an ordered
// shutdown: the worker pool, the database handle and the observability
// exporters.
type App struct {
	Server *http.Server

	logger          *logging.Logger
	db              *sqlx.DB
	pool            *ants.Pool
	pprofSrv        *http.Server
	uptraceShutdown func(context.Context) error
	pyroscopeStop   func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{logger: logger}

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	a.uptraceShutdown = uptraceShutdown

	pyroscopeStop, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		a.closeOnBuildError(ctx)
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	a.pyroscopeStop = pyroscopeStop

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		a.closeOnBuildError(ctx)
		return nil, fmt.Errorf("start pprof server: %w", err)
	}
	a.pprofSrv = pprofSrv

	db, err := postgres.Open(ctx, normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinaryResult))
	if err != nil {
		a.closeOnBuildError(ctx)
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	logger.InfoContext(ctx, "database connected", "db_name", dbNameFromURL(cfg.DBURL))

	competitionRepo := postgres.NewCompetitionRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	standingRepo := postgres.NewStandingRepository(db)
	fixtureRepo := postgres.NewFixtureRepository(db)
	h2hRepo := postgres.NewHeadToHeadRepository(db)
	syncLogRepo := postgres.NewSyncLogRepository(db)

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:      cfg.FootballDataBaseURL,
		Token:        cfg.FootballDataToken,
		Timeout:      cfg.FootballDataTimeout,
		MinInterval:  cfg.FootballDataMinInterval,
		RateCooldown: cfg.FootballDataRateCooldown,
		MaxRetries:   cfg.FootballDataMaxRetries,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenReq,
		},
	})

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	pool, err := ants.NewPool(cfg.SyncWorkerPoolSize)
	if err != nil {
		a.closeOnBuildError(ctx)
		return nil, fmt.Errorf("create sync worker pool size=%d: %w", cfg.SyncWorkerPoolSize, err)
	}
	a.pool = pool

	formSvc := usecase.NewFormService(provider, logger)
	syncSvc := usecase.NewSyncService(
		provider,
		competitionRepo,
		teamRepo,
		standingRepo,
		fixtureRepo,
		h2hRepo,
		formSvc,
		usecase.SyncConfig{
			H2HSeasonYears:      cfg.H2HSeasonYears,
			H2HWriteConcurrency: cfg.H2HWriteConcurrency,
			FormMatchLimit:      cfg.FormMatchLimit,
		},
		logger,
	)
	orchestrator := usecase.NewSyncOrchestratorService(
		syncSvc,
		syncLogRepo,
		pool,
		store,
		usecase.SyncOrchestratorConfig{
			CompetitionDelay:    cfg.SyncCompetitionDelay,
			BrazilCompetitionID: cfg.BrazilCompetitionID,
			RunTimeout:          cfg.SyncRunTimeout,
		},
		logger,
	)
	readSvc := usecase.NewReadService(
		provider,
		competitionRepo,
		teamRepo,
		standingRepo,
		fixtureRepo,
		h2hRepo,
		formSvc,
		store,
		usecase.ReadConfig{
			MatchdayAdvanceAfter:      cfg.MatchdayAdvanceAfter,
			MatchdayTightGap:          cfg.MatchdayTightGap,
			MatchdayTightAdvanceAfter: cfg.MatchdayTightAdvanceAfter,
			FormMatchLimit:            cfg.FormMatchLimit,
			H2HFallbackYears:          cfg.H2HFallbackYears,
		},
		logger,
	)

	handler := httpapi.NewHandler(readSvc, orchestrator, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	if cfg.HTTPAddr == "" {
		a.closeOnBuildError(ctx)
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Shutdown stops the HTTP server, then releases the worker pool, the
// database and the observability exporters. Errors are logged and the
// first one is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.logger.ErrorContext(ctx, "http server shutdown failed", "error", err)
			firstErr = err
		}
	}

	a.releaseResources(ctx, &firstErr)
	return firstErr
}

// closeOnBuildError unwinds whatever New managed to construct before
// failing.
func (a *App) closeOnBuildError(ctx context.Context) {
	var discard error
	a.releaseResources(ctx, &discard)
}

func (a *App) releaseResources(ctx context.Context, firstErr *error) {
	if a.pool != nil {
		a.pool.Release()
		a.pool = nil
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.ErrorContext(ctx, "database close failed", "error", err)
			if *firstErr == nil {
				*firstErr = err
			}
		}
		a.db = nil
	}

	if a.pprofSrv != nil {
		if err := observability.StopPprofServer(a.pprofSrv, a.logger, pprofStopTimeout); err != nil && *firstErr == nil {
			*firstErr = err
		}
		a.pprofSrv = nil
	}

	if a.pyroscopeStop != nil {
		if err := a.pyroscopeStop(); err != nil {
			a.logger.ErrorContext(ctx, "pyroscope stop failed", "error", err)
			if *firstErr == nil {
				*firstErr = err
			}
		}
		a.pyroscopeStop = nil
	}

	if a.uptraceShutdown != nil {
		if err := a.uptraceShutdown(ctx); err != nil {
			a.logger.ErrorContext(ctx, "uptrace shutdown failed", "error", err)
			if *firstErr == nil {
				*firstErr = err
			}
		}
		a.uptraceShutdown = nil
	}
}
