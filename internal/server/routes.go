package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	sessions, history, broker := deps.Sessions, deps.History, deps.Broker

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("dartscore API", "/openapi.json", "/docs"))

	r.Get("/api/darts/{token}", handleParseDart())
	r.Get("/api/checkout/{score}", handleCheckout())

	r.Post("/api/matches", handleCreateMatch(logger, sessions))
	r.Route("/api/matches/{id}", func(r chi.Router) {
		r.Use(matchMiddleware(sessions, logger))
		r.Get("/", handleGetMatch())
		r.Get("/summary", handleMatchSummary())
		r.Get("/events", handleEvents(broker))

		// Scoring requires the token handed out at creation.
		r.Group(func(r chi.Router) {
			r.Use(scorerAuthMiddleware)
			r.Delete("/", handleDeleteMatch(logger, sessions, broker))
			r.Post("/turns", handleSubmitTurn(logger, history, broker))
			r.Post("/darts", handleAddDart(logger, history, broker))
			r.Post("/end-turn", handleEndTurn(logger, history, broker))
			r.Post("/undo", handleUndo(logger, history, broker))
		})
	})

	r.With(matchMiddleware(sessions, logger)).Get("/ws/matches/{id}", handleLive(logger, broker))

	r.Get("/api/history", handleListHistory(logger, history))
	r.With(adminAuthMiddleware(deps.AdminHash)).Delete("/api/history", handleClearHistory(logger, history))
}
