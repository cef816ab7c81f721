package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/bagaskoro/goalpoll/internal/platform/logging"
	"github.com/bagaskoro/goalpoll/internal/platform/resilience"
	"github.com/bagaskoro/goalpoll/internal/usecase"
)

const (
	defaultBaseURL      = "https://api.football-data.org/v4"
	defaultMinInterval  = 6500 * time.Millisecond
	defaultRateCooldown = 60 * time.Second
	dateParamLayout     = "2006-01-02"
)

var errFootballDataTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	// MinInterval is the minimum spacing between outbound calls. The
	// free tier allows ~10 requests a minute, so the default keeps a
	// margin under that.
	MinInterval time.Duration
	// RateCooldown is the 429 fallback wait when the provider sends no
	// Retry-After header.
	RateCooldown   time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football data provider. All calls flow through
// one single-token rate limiter, so the provider side is serialized no
// matter how many goroutines fetch concurrently.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	limiter        *rate.Limiter
	rateCooldown   time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	minInterval := cfg.MinInterval
	if minInterval <= 0 {
		minInterval = defaultMinInterval
	}
	rateCooldown := cfg.RateCooldown
	if rateCooldown <= 0 {
		rateCooldown = defaultRateCooldown
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		limiter:        rate.NewLimiter(rate.Every(minInterval), 1),
		rateCooldown:   rateCooldown,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchCompetitions(ctx context.Context) ([]usecase.ExternalCompetition, error) {
	var envelope competitionsEnvelope
	if err := c.doJSON(ctx, "/competitions", nil, &envelope); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalCompetition, 0, len(envelope.Competitions))
	for _, item := range envelope.Competitions {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapCompetitionPayload(item))
	}
	return out, nil
}

func (c *Client) FetchCompetition(ctx context.Context, competitionID int) (usecase.ExternalCompetition, error) {
	if competitionID <= 0 {
		return usecase.ExternalCompetition{}, fmt.Errorf("competition id must be greater than zero")
	}

	var payload competitionPayload
	if err := c.doJSON(ctx, fmt.Sprintf("/competitions/%d", competitionID), nil, &payload); err != nil {
		return usecase.ExternalCompetition{}, err
	}
	return mapCompetitionPayload(payload), nil
}

func (c *Client) FetchTeamsByCompetition(ctx context.Context, competitionID int) ([]usecase.ExternalTeam, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}

	var envelope teamsEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/competitions/%d/teams", competitionID), nil, &envelope); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapTeamPayload(item))
	}
	return out, nil
}

func (c *Client) FetchStandingsByCompetition(ctx context.Context, competitionID int) ([]usecase.ExternalStandingTable, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}

	var envelope standingsEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/competitions/%d/standings", competitionID), nil, &envelope); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalStandingTable, 0, len(envelope.Standings))
	for _, table := range envelope.Standings {
		out = append(out, mapStandingTablePayload(table))
	}
	return out, nil
}

func (c *Client) FetchMatchesByCompetition(ctx context.Context, competitionID int) ([]usecase.ExternalMatch, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/competitions/%d/matches", competitionID), nil, &envelope); err != nil {
		return nil, err
	}
	return mapMatchesEnvelope(envelope), nil
}

func (c *Client) FetchMatchesByCompetitionMatchday(ctx context.Context, competitionID, matchday int) ([]usecase.ExternalMatch, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}
	if matchday <= 0 {
		return nil, fmt.Errorf("matchday must be greater than zero")
	}

	query := map[string]string{"matchday": strconv.Itoa(matchday)}
	var envelope matchesEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/competitions/%d/matches", competitionID), query, &envelope); err != nil {
		return nil, err
	}
	return mapMatchesEnvelope(envelope), nil
}

func (c *Client) FetchFinishedTeamMatches(ctx context.Context, teamID, limit int) ([]usecase.ExternalMatch, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	query := map[string]string{"status": "FINISHED"}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	var envelope matchesEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/teams/%d/matches", teamID), query, &envelope); err != nil {
		return nil, err
	}
	return mapMatchesEnvelope(envelope), nil
}

func (c *Client) FetchTeamMatchesBetween(ctx context.Context, teamID int, dateFrom, dateTo time.Time) ([]usecase.ExternalMatch, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}
	if dateFrom.After(dateTo) {
		return nil, fmt.Errorf("date range is inverted: %s > %s", dateFrom.Format(dateParamLayout), dateTo.Format(dateParamLayout))
	}

	query := map[string]string{
		"dateFrom": dateFrom.UTC().Format(dateParamLayout),
		"dateTo":   dateTo.UTC().Format(dateParamLayout),
	}
	var envelope matchesEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/teams/%d/matches", teamID), query, &envelope); err != nil {
		return nil, err
	}
	return mapMatchesEnvelope(envelope), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFootballDataCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload path=%s: %w", path, err)
	}

	c.logger.DebugContext(ctx, "football-data request ok", "path", path, "bytes", len(raw))
	return nil
}

// executeRequest issues one GET through the shared limiter. A 429 gets
// one cooldown-and-retry; a second 429 is terminal for the call.
// Transient failures get up to maxRetries bounded retries.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	transientRetries := 0
	rateRetried := false
	var lastErr error

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for provider rate slot: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballDataTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests:
				if rateRetried {
					return nil, fmt.Errorf("provider rate limit hit twice status=429 body=%s", abbreviateBody(raw))
				}
				rateRetried = true
				cooldown := retryAfterDelay(resp.Header, c.rateCooldown)
				c.logger.WarnContext(ctx, "football-data rate limited, cooling down", "url", fullURL, "cooldown", cooldown)
				if err := sleepContext(ctx, cooldown); err != nil {
					return nil, err
				}
				continue
			case resp.StatusCode >= http.StatusInternalServerError:
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if transientRetries >= c.maxRetries {
			break
		}
		transientRetries++
		if err := sleepContext(ctx, time.Duration(transientRetries)*time.Second); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryAfterDelay honors the provider's Retry-After seconds when
// present and sane, otherwise falls back to the fixed cooldown.
func retryAfterDelay(header http.Header, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 || seconds > 600 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func isFootballDataCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFootballDataTransient)
}
