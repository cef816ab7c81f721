package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/bagaskoro/goalpoll/internal/domain/competition"
	"github.com/bagaskoro/goalpoll/internal/domain/standing"
	"github.com/bagaskoro/goalpoll/internal/domain/team"
	"github.com/bagaskoro/goalpoll/internal/infrastructure/repository/memory"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
	"github.com/bagaskoro/goalpoll/internal/usecase"
)

const testJobToken = "test-job-token"

type cannedProvider struct {
	competitions []usecase.ExternalCompetition
}

func (p *cannedProvider) FetchCompetitions(context.Context) ([]usecase.ExternalCompetition, error) {
	return p.competitions, nil
}

func (p *cannedProvider) FetchCompetition(_ context.Context, competitionID int) (usecase.ExternalCompetition, error) {
	for _, c := range p.competitions {
		if c.ExternalID == competitionID {
			return c, nil
		}
	}
	return usecase.ExternalCompetition{}, nil
}

func (p *cannedProvider) FetchTeamsByCompetition(context.Context, int) ([]usecase.ExternalTeam, error) {
	return nil, nil
}

func (p *cannedProvider) FetchStandingsByCompetition(context.Context, int) ([]usecase.ExternalStandingTable, error) {
	return nil, nil
}

func (p *cannedProvider) FetchMatchesByCompetition(context.Context, int) ([]usecase.ExternalMatch, error) {
	return nil, nil
}

func (p *cannedProvider) FetchMatchesByCompetitionMatchday(context.Context, int, int) ([]usecase.ExternalMatch, error) {
	return nil, nil
}

func (p *cannedProvider) FetchFinishedTeamMatches(context.Context, int, int) ([]usecase.ExternalMatch, error) {
	return nil, nil
}

func (p *cannedProvider) FetchTeamMatchesBetween(context.Context, int, time.Time, time.Time) ([]usecase.ExternalMatch, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *memory.CompetitionRepository) {
	t.Helper()

	provider := &cannedProvider{
		competitions: []usecase.ExternalCompetition{
			{ExternalID: 2002, Name: "Bundesliga", Code: "BL1"},
		},
	}

	competitionRepo := memory.NewCompetitionRepository([]competition.Competition{
		{ID: 2013, Name: "Campeonato Brasileiro Série A", Code: "BSA"},
	})
	teamRepo := memory.NewTeamRepository([]team.Team{
		{ID: 10, Name: "Botafogo FR"},
	})
	standingRepo := memory.NewStandingRepository([]standing.Standing{
		{CompetitionID: 2013, TeamID: 10, Position: 1, Played: 3, Won: 3, Points: 9, Form: "WWW"},
	})
	fixtureRepo := memory.NewFixtureRepository(nil)
	h2hRepo := memory.NewHeadToHeadRepository(nil)
	syncLogRepo := memory.NewSyncLogRepository()

	logger := logging.NewNop()
	form := usecase.NewFormService(provider, logger)
	syncService := usecase.NewSyncService(provider, competitionRepo, teamRepo, standingRepo, fixtureRepo, h2hRepo, form, usecase.SyncConfig{}, logger)
	orchestrator := usecase.NewSyncOrchestratorService(syncService, syncLogRepo, nil, nil, usecase.SyncOrchestratorConfig{
		CompetitionDelay: time.Millisecond,
	}, logger)
	readService := usecase.NewReadService(provider, competitionRepo, teamRepo, standingRepo, fixtureRepo, h2hRepo, form, nil, usecase.ReadConfig{}, logger)

	handler := NewHandler(readService, orchestrator, logger)
	return NewRouter(handler, logger, []string{"*"}, testJobToken), competitionRepo
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestListCompetitionsReturnsCachedRows(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one competition, got %v", body["data"])
	}
	first, _ := items[0].(map[string]any)
	if got, _ := first["code"].(string); got != "BSA" {
		t.Fatalf("expected code BSA, got %v", first["code"])
	}
}

func TestListStandingsReturnsSeededTable(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions/2013/standings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one standing row, got %v", body["data"])
	}
	row, _ := items[0].(map[string]any)
	if got, _ := row["form"].(string); got != "WWW" {
		t.Fatalf("expected form WWW, got %v", row["form"])
	}
}

func TestGetCompetitionRejectsNonNumericID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestStartSyncRunRequiresJobToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/runs", strings.NewReader(`{"type":"competitions"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestStartSyncRunInlineRefreshesCompetitions(t *testing.T) {
	router, competitionRepo := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/runs", strings.NewReader(`{"type":"competitions","wait":true}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "completed" {
		t.Fatalf("expected completed run, got %v", data["status"])
	}

	stored, found, err := competitionRepo.GetByID(context.Background(), 2002)
	if err != nil || !found {
		t.Fatalf("expected provider competition to be upserted, found=%t err=%v", found, err)
	}
	if stored.Name != "Bundesliga" {
		t.Fatalf("unexpected competition name %q", stored.Name)
	}
}

func TestStartSyncRunRejectsUnknownType(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/runs", strings.NewReader(`{"type":"players","wait":true}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetSyncRunReturnsClosedOutLog(t *testing.T) {
	router, _ := newTestRouter(t)

	start := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/runs", strings.NewReader(`{"type":"competitions","wait":true}`))
	start.Header.Set("X-Internal-Job-Token", testJobToken)
	startRec := httptest.NewRecorder()
	router.ServeHTTP(startRec, start)
	if startRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", startRec.Code, startRec.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/v1/internal/sync/runs/1", nil)
	get.Header.Set("X-Internal-Job-Token", testJobToken)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, get)

	if getRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", getRec.Code, getRec.Body.String())
	}

	body := decodeEnvelope(t, getRec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["syncType"].(string); got != "competitions" {
		t.Fatalf("expected syncType competitions, got %v", data["syncType"])
	}
	if got, _ := data["status"].(string); got != "completed" {
		t.Fatalf("expected status completed, got %v", data["status"])
	}
}

func TestCancelSyncRunUnknownRunIsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/v1/internal/sync/runs/42", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
