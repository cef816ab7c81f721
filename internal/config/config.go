package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bagaskoro/goalpoll/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	DBURL          string

	DBDisablePreparedBinaryResult bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	InternalJobToken   string

	FootballDataBaseURL             string
	FootballDataToken               string
	FootballDataTimeout             time.Duration
	FootballDataMinInterval         time.Duration
	FootballDataRateCooldown        time.Duration
	FootballDataMaxRetries          int
	FootballDataCircuitEnabled      bool
	FootballDataCircuitFailureCount int
	FootballDataCircuitOpenTimeout  time.Duration
	FootballDataCircuitHalfOpenReq  int

	SyncCompetitionDelay time.Duration
	SyncRunTimeout       time.Duration
	SyncWorkerPoolSize   int
	FormMatchLimit       int
	H2HSeasonYears       int
	H2HWriteConcurrency  int
	H2HFallbackYears     int
	BrazilCompetitionID  int

	MatchdayAdvanceAfter      time.Duration
	MatchdayTightGap          time.Duration
	MatchdayTightAdvanceAfter time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}

	dbDisablePreparedBinaryResult, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheEnabled && cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0 when CACHE_ENABLED=true")
	}

	footballDataToken := strings.TrimSpace(getEnv("FOOTBALLDATA_TOKEN", ""))
	if footballDataToken == "" {
		return Config{}, fmt.Errorf("FOOTBALLDATA_TOKEN is required")
	}
	footballDataTimeout, err := getEnvAsDuration("FOOTBALLDATA_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_TIMEOUT: %w", err)
	}
	footballDataMinInterval, err := getEnvAsDuration("FOOTBALLDATA_MIN_INTERVAL", 6500*time.Millisecond)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_MIN_INTERVAL: %w", err)
	}
	footballDataRateCooldown, err := getEnvAsDuration("FOOTBALLDATA_RATE_COOLDOWN", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_RATE_COOLDOWN: %w", err)
	}
	footballDataMaxRetries, err := getEnvAsInt("FOOTBALLDATA_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_MAX_RETRIES: %w", err)
	}
	footballDataCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALLDATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_CIRCUIT_ENABLED: %w", err)
	}
	footballDataCircuitFailureCount, err := getEnvAsInt("FOOTBALLDATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	footballDataCircuitOpenTimeout, err := getEnvAsDuration("FOOTBALLDATA_CIRCUIT_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	footballDataCircuitHalfOpenReq, err := getEnvAsInt("FOOTBALLDATA_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	syncCompetitionDelay, err := getEnvAsDuration("SYNC_COMPETITION_DELAY", 6*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_COMPETITION_DELAY: %w", err)
	}
	syncRunTimeout, err := getEnvAsDuration("SYNC_RUN_TIMEOUT", 6*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_RUN_TIMEOUT: %w", err)
	}
	syncWorkerPoolSize, err := getEnvAsInt("SYNC_WORKER_POOL_SIZE", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_WORKER_POOL_SIZE: %w", err)
	}
	if syncWorkerPoolSize <= 0 {
		return Config{}, fmt.Errorf("SYNC_WORKER_POOL_SIZE must be > 0")
	}
	formMatchLimit, err := getEnvAsInt("FORM_MATCH_LIMIT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FORM_MATCH_LIMIT: %w", err)
	}
	h2hSeasonYears, err := getEnvAsInt("H2H_SEASON_YEARS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse H2H_SEASON_YEARS: %w", err)
	}
	h2hWriteConcurrency, err := getEnvAsInt("H2H_WRITE_CONCURRENCY", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse H2H_WRITE_CONCURRENCY: %w", err)
	}
	h2hFallbackYears, err := getEnvAsInt("H2H_FALLBACK_YEARS", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse H2H_FALLBACK_YEARS: %w", err)
	}
	brazilCompetitionID, err := getEnvAsInt("BRAZIL_COMPETITION_ID", 2013)
	if err != nil {
		return Config{}, fmt.Errorf("parse BRAZIL_COMPETITION_ID: %w", err)
	}

	matchdayAdvanceAfter, err := getEnvAsDuration("MATCHDAY_ADVANCE_AFTER", 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHDAY_ADVANCE_AFTER: %w", err)
	}
	matchdayTightGap, err := getEnvAsDuration("MATCHDAY_TIGHT_GAP", 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHDAY_TIGHT_GAP: %w", err)
	}
	matchdayTightAdvanceAfter, err := getEnvAsDuration("MATCHDAY_TIGHT_ADVANCE_AFTER", 8*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHDAY_TIGHT_ADVANCE_AFTER: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	serviceName := strings.TrimSpace(getEnv("SERVICE_NAME", "goalpoll"))

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:       strings.TrimSpace(getEnv("HTTP_ADDR", ":8080")),
		DBURL:          dbURL,

		DBDisablePreparedBinaryResult: dbDisablePreparedBinaryResult,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		FootballDataBaseURL:             strings.TrimSpace(getEnv("FOOTBALLDATA_BASE_URL", "https://api.football-data.org/v4")),
		FootballDataToken:               footballDataToken,
		FootballDataTimeout:             footballDataTimeout,
		FootballDataMinInterval:         footballDataMinInterval,
		FootballDataRateCooldown:        footballDataRateCooldown,
		FootballDataMaxRetries:          footballDataMaxRetries,
		FootballDataCircuitEnabled:      footballDataCircuitEnabled,
		FootballDataCircuitFailureCount: footballDataCircuitFailureCount,
		FootballDataCircuitOpenTimeout:  footballDataCircuitOpenTimeout,
		FootballDataCircuitHalfOpenReq:  footballDataCircuitHalfOpenReq,

		SyncCompetitionDelay: syncCompetitionDelay,
		SyncRunTimeout:       syncRunTimeout,
		SyncWorkerPoolSize:   syncWorkerPoolSize,
		FormMatchLimit:       formMatchLimit,
		H2HSeasonYears:       h2hSeasonYears,
		H2HWriteConcurrency:  h2hWriteConcurrency,
		H2HFallbackYears:     h2hFallbackYears,
		BrazilCompetitionID:  brazilCompetitionID,

		MatchdayAdvanceAfter:      matchdayAdvanceAfter,
		MatchdayTightGap:          matchdayTightGap,
		MatchdayTightAdvanceAfter: matchdayTightAdvanceAfter,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
