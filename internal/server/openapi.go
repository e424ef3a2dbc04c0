package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/ejdedart/dartscore/internal/match"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each checked dependency to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

type matchPath struct {
	ID string `path:"id"`
}

type scorerRequest struct {
	matchPath
	Authorization string `header:"Authorization" description:"Bearer scorer token"`
}

type turnRequestDoc struct {
	scorerRequest
	TurnRequest
}

type dartRequestDoc struct {
	scorerRequest
	DartRequest
}

type checkoutQuery struct {
	Score int    `path:"score"`
	Out   string `query:"out" enum:"straight,double,master" default:"double"`
	N     int    `query:"n" minimum:"1" maximum:"10" default:"3"`
}

type historyQuery struct {
	Limit int `query:"limit" minimum:"1"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "dartscore API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Scoring service for x01 darts matches.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/darts/{token}
	getDart, _ := r.NewOperationContext(http.MethodGet, "/api/darts/{token}")
	getDart.SetSummary("Parse dart")
	getDart.SetDescription("Parses a dart token such as T20, D16, SB, DB or MISS.")
	getDart.AddReqStructure(struct {
		Token string `path:"token"`
	}{})
	getDart.AddRespStructure(DartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getDart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getDart)

	// GET /api/checkout/{score}
	getCheckout, _ := r.NewOperationContext(http.MethodGet, "/api/checkout/{score}")
	getCheckout.SetSummary("Checkout lines")
	getCheckout.SetDescription("Returns the best finishing line for a score and up to n alternatives of the same length.")
	getCheckout.AddReqStructure(checkoutQuery{})
	getCheckout.AddRespStructure(CheckoutResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getCheckout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getCheckout)

	// POST /api/matches
	postMatch, _ := r.NewOperationContext(http.MethodPost, "/api/matches")
	postMatch.SetSummary("Create match")
	postMatch.SetDescription("Starts a match for two to four players. Returns the scorer token once.")
	postMatch.AddReqStructure(CreateMatchRequest{})
	postMatch.AddRespStructure(CreateMatchResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postMatch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postMatch)

	// GET /api/matches/{id}
	getMatch, _ := r.NewOperationContext(http.MethodGet, "/api/matches/{id}")
	getMatch.SetSummary("Get match")
	getMatch.SetDescription("Returns the scoreboard view including the checkout suggestion for the player to throw.")
	getMatch.AddReqStructure(matchPath{})
	getMatch.AddRespStructure(MatchView{}, openapi.WithHTTPStatus(http.StatusOK))
	getMatch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getMatch)

	// GET /api/matches/{id}/summary
	getSummary, _ := r.NewOperationContext(http.MethodGet, "/api/matches/{id}/summary")
	getSummary.SetSummary("Match summary")
	getSummary.SetDescription("Returns the flattened record kept in history.")
	getSummary.AddReqStructure(matchPath{})
	getSummary.AddRespStructure(match.Summary{}, openapi.WithHTTPStatus(http.StatusOK))
	getSummary.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSummary)

	// DELETE /api/matches/{id}
	deleteMatch, _ := r.NewOperationContext(http.MethodDelete, "/api/matches/{id}")
	deleteMatch.SetSummary("Delete match")
	deleteMatch.SetDescription("Drops the match and its saved game. Requires the scorer token.")
	deleteMatch.AddReqStructure(scorerRequest{})
	deleteMatch.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteMatch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	deleteMatch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteMatch)

	// POST /api/matches/{id}/turns
	postTurn, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{id}/turns")
	postTurn.SetSummary("Submit visit")
	postTurn.SetDescription("Commits one to three darts for the player to throw. Requires the scorer token.")
	postTurn.AddReqStructure(turnRequestDoc{})
	postTurn.AddRespStructure(PlayResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTurn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postTurn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postTurn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postTurn)

	// POST /api/matches/{id}/darts
	postDart, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{id}/darts")
	postDart.SetSummary("Add dart")
	postDart.SetDescription("Adds one dart to the open visit. The visit commits itself after three darts, a bust or a checkout.")
	postDart.AddReqStructure(dartRequestDoc{})
	postDart.AddRespStructure(PlayResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postDart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postDart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postDart)

	// POST /api/matches/{id}/end-turn
	postEnd, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{id}/end-turn")
	postEnd.SetSummary("End visit early")
	postEnd.SetDescription("Commits the open visit with fewer than three darts.")
	postEnd.AddReqStructure(scorerRequest{})
	postEnd.AddRespStructure(PlayResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postEnd)

	// POST /api/matches/{id}/undo
	postUndo, _ := r.NewOperationContext(http.MethodPost, "/api/matches/{id}/undo")
	postUndo.SetSummary("Undo")
	postUndo.SetDescription("Takes back the last open dart, or the last committed visit when none is open.")
	postUndo.AddReqStructure(scorerRequest{})
	postUndo.AddRespStructure(PlayResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUndo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postUndo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postUndo)

	// GET /api/matches/{id}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/matches/{id}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events for every dart, visit and undo in the match.")
	getEvents.AddReqStructure(matchPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/matches/{id}
	getLive, _ := r.NewOperationContext(http.MethodGet, "/ws/matches/{id}")
	getLive.SetSummary("Live scoreboard")
	getLive.SetDescription("Upgrades to a WebSocket that sends the match view on connect and after every event.")
	getLive.AddReqStructure(matchPath{})
	getLive.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("application/json"))
	_ = r.AddOperation(getLive)

	// GET /api/history
	getHistory, _ := r.NewOperationContext(http.MethodGet, "/api/history")
	getHistory.SetSummary("Match history")
	getHistory.SetDescription("Returns the most recent finished matches, newest first.")
	getHistory.AddReqStructure(historyQuery{})
	getHistory.AddRespStructure([]HistoryEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHistory)

	// DELETE /api/history
	deleteHistory, _ := r.NewOperationContext(http.MethodDelete, "/api/history")
	deleteHistory.SetSummary("Clear history")
	deleteHistory.SetDescription("Removes every history entry. Requires the admin bearer token.")
	deleteHistory.AddReqStructure(struct {
		Authorization string `header:"Authorization"`
	}{})
	deleteHistory.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteHistory.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteHistory)

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
