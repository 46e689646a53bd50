package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Keydash API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Keydash typing race.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Race channel")
	getWS.SetDescription("Upgrades to the WebSocket race channel. Events: createSession, joinSession, startSession, updateProgress, submitResult.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/paragraphs
	getParagraphs, _ := r.NewOperationContext(http.MethodGet, "/api/paragraphs")
	getParagraphs.SetSummary("Reference text")
	getParagraphs.SetDescription("Returns the cleaned word sequence for the next race. Falls back to a fixed sentence when the upstream provider fails.")
	getParagraphs.AddRespStructure(ParagraphResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getParagraphs)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("Global leaderboard")
	getLeaderboard.SetDescription("Top players by correct speed, ties broken by accuracy. Optional limit query parameter.")
	getLeaderboard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/stats")
	getStats.SetSummary("Global stats")
	getStats.SetDescription("Returns the persisted player count and average speed.")
	getStats.AddRespStructure(StatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStats)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
