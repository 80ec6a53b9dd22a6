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

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/bootstrap", handler.GetBootstrap)
	mux.HandleFunc("GET /v1/slates", handler.ListSlates)
	mux.HandleFunc("GET /v1/slates/{slateID}", handler.GetSlate)
	mux.HandleFunc("GET /v1/slates/{slateID}/leaderboard", handler.GetSlateLeaderboard)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetOverallLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/slates/{slateID}/lineup", RequireAuth(verifier, http.HandlerFunc(handler.GetMyLineup)))
	mux.Handle("PUT /v1/slates/{slateID}/lineup", RequireAuth(verifier, http.HandlerFunc(handler.SubmitLineup)))
	mux.Handle("GET /v1/entries/{entryID}/breakdown", RequireAuth(verifier, http.HandlerFunc(handler.GetMyEntryBreakdown)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/settlement", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettlementJob)))
	mux.Handle("POST /v1/internal/jobs/feed-sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunFeedSyncJob)))
	mux.Handle("POST /v1/internal/ingestion/fixtures", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestFixtureResults)))
	mux.Handle("POST /v1/internal/ingestion/player-stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestPlayerFixtureStats)))
}
