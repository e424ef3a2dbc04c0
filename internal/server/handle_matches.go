package server

import (
	"log/slog"
	"net/http"

	"github.com/ejdedart/dartscore/internal/match"
)

type CreateMatchRequest struct {
	Players  []string       `json:"players"`
	Settings match.Settings `json:"settings"`
}

type CreateMatchResponse struct {
	// ScorerToken authorizes every change to the match. It is shown once.
	ScorerToken string    `json:"scorerToken"`
	Match       MatchView `json:"match"`
}

func handleCreateMatch(logger *slog.Logger, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMatchRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess, token, err := sessions.Create(r.Context(), req.Settings.WithDefaults(), req.Players)
		if err != nil {
			writeMatchError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateMatchResponse{
			ScorerToken: token,
			Match:       sess.View(),
		})
	}
}

func handleGetMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionFrom(r).View())
	}
}

func handleMatchSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionFrom(r).Summary())
	}
}

func handleDeleteMatch(logger *slog.Logger, sessions *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := sessions.Delete(r.Context(), sess.ID); err != nil {
			writeMatchError(w, logger, err)
			return
		}

		broker.Publish(Event{Type: EventClosed, MatchID: sess.ID})
		logger.Info("match deleted", "match_id", sess.ID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
