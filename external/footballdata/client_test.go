package footballdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bagaskoro/goalpoll/internal/platform/logging"
	"github.com/bagaskoro/goalpoll/internal/platform/resilience"
)

func newTestClient(srv *httptest.Server, minInterval, rateCooldown time.Duration, maxRetries int) *Client {
	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		Token:          "token-abc",
		MinInterval:    minInterval,
		RateCooldown:   rateCooldown,
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestFetchCompetitions_SendsTokenAndParses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/competitions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Auth-Token"); got != "token-abc" {
			t.Fatalf("unexpected X-Auth-Token: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"competitions": [
				{
					"id": 2013,
					"name": "Campeonato Brasileiro Série A",
					"code": "BSA",
					"type": "LEAGUE",
					"emblem": "https://crests.example/bsa.png",
					"area": {"name": "Brazil", "code": "BRA"},
					"currentSeason": {"id": 99, "startDate": "2026-03-28", "currentMatchday": 21},
					"plan": "TIER_ONE",
					"lastUpdated": "2026-08-01T10:00:00Z"
				},
				{"id": 0, "name": "broken row"}
			]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, time.Millisecond, time.Second, 0)
	competitions, err := client.FetchCompetitions(context.Background())
	if err != nil {
		t.Fatalf("fetch competitions: %v", err)
	}

	if len(competitions) != 1 {
		t.Fatalf("expected 1 usable competition, got %d", len(competitions))
	}
	comp := competitions[0]
	if comp.ExternalID != 2013 || comp.Code != "BSA" || comp.AreaCode != "BRA" {
		t.Fatalf("unexpected competition: %+v", comp)
	}
	if comp.CurrentMatchday == nil || *comp.CurrentMatchday != 21 {
		t.Fatalf("unexpected current matchday: %+v", comp.CurrentMatchday)
	}
	if comp.LastUpdated == nil {
		t.Fatal("expected lastUpdated to be parsed")
	}
}

func TestClientSerializesCallsAtMinInterval(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var arrivals []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		_, _ = w.Write([]byte(`{"competitions": []}`))
	}))
	defer srv.Close()

	const minInterval = 120 * time.Millisecond
	client := newTestClient(srv, minInterval, time.Second, 0)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.FetchCompetitions(ctx); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(arrivals) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(arrivals))
	}
	// Timer scheduling can shave a few hundred microseconds off.
	const slack = 10 * time.Millisecond
	for i := 1; i < len(arrivals); i++ {
		if gap := arrivals[i].Sub(arrivals[i-1]); gap < minInterval-slack {
			t.Fatalf("requests %d and %d spaced %v, want at least %v", i-1, i, gap, minInterval)
		}
	}
}

func TestClientRetriesOnceAfter429(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"competitions": [{"id": 2021, "name": "Premier League"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, time.Millisecond, 30*time.Second, 0)

	start := time.Now()
	competitions, err := client.FetchCompetitions(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if len(competitions) != 1 {
		t.Fatalf("expected 1 competition after retry, got %d", len(competitions))
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly 2 requests, got %d", calls.Load())
	}
	// Retry-After of 1s must win over the 30s fallback cooldown.
	if elapsed := time.Since(start); elapsed < time.Second || elapsed > 10*time.Second {
		t.Fatalf("unexpected cooldown duration %v", elapsed)
	}
}

func TestClientSecond429IsTerminal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv, time.Millisecond, time.Second, 3)

	_, err := client.FetchCompetitions(context.Background())
	if err == nil {
		t.Fatal("expected second 429 to be terminal")
	}
	if !strings.Contains(err.Error(), "rate limit hit twice") {
		t.Fatalf("unexpected error: %v", err)
	}
	// No transient retry budget applies to a double 429.
	if calls.Load() != 2 {
		t.Fatalf("expected exactly 2 requests, got %d", calls.Load())
	}
}

func TestClientRetriesTransientServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"matches": []}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, time.Millisecond, time.Second, 1)

	if _, err := client.FetchMatchesByCompetition(context.Background(), 2013); err != nil {
		t.Fatalf("expected transient retry to succeed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly 2 requests, got %d", calls.Load())
	}
}

func TestClientDoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv, time.Millisecond, time.Second, 3)

	_, err := client.FetchCompetition(context.Background(), 9999)
	if err == nil {
		t.Fatal("expected 404 to fail")
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d requests", calls.Load())
	}
}
