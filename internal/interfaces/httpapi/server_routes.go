package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/teams", handler.ListTeamsByCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/standings", handler.ListStandingsByCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/fixtures", handler.ListFixturesByCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/matchday/current", handler.GetSmartCurrentMatchday)
	mux.HandleFunc("GET /v1/teams/{teamID}/form", handler.GetTeamForm)
	mux.HandleFunc("GET /v1/teams/{teamID}/head-to-head/{otherTeamID}", handler.GetHeadToHead)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync/runs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.StartSyncRun)))
	mux.Handle("GET /v1/internal/sync/runs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListSyncRuns)))
	mux.Handle("GET /v1/internal/sync/runs/{runID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSyncRun)))
	mux.Handle("DELETE /v1/internal/sync/runs/{runID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CancelSyncRun)))
}
