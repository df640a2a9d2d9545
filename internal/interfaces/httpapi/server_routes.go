package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerCompetitionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/seasons", handler.StartSeason)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/seasons/current", handler.GetCurrentSeason)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/qualification", handler.GetQualificationPreview)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/player-stats", handler.ListPlayerStats)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/transition", handler.TransitionSeason)
}

func registerMatchdayRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions/{competitionID}/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/fixtures/{fixtureID}/playable", handler.CanPlayFixture)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/fixtures/{fixtureID}/result", handler.ResolveFixture)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/fixtures/{fixtureID}/play", handler.PlayFixture)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/matchdays/{round}", handler.GetMatchdayStatus)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/matchdays/current/simulate", handler.SimulateMatchday)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/matchdays/current/advance", handler.AdvanceRound)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/simulate-round", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSimulateRoundJob)))
	mux.Handle("GET /v1/internal/seasons/{seasonID}/dispatches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListJobDispatches)))
}
