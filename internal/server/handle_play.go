package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ejdedart/dartscore/internal/darts"
	"github.com/ejdedart/dartscore/internal/match"
)

type TurnRequest struct {
	Darts []string `json:"darts"`
}

type DartRequest struct {
	Dart string `json:"dart"`
}

// PlayResponse answers every scoring call. Result is set when a visit was
// committed.
type PlayResponse struct {
	Result *match.TurnResult `json:"result,omitempty"`
	Undone string            `json:"undone,omitempty"`
	Match  MatchView         `json:"match"`
}

// committed publishes a finished visit and, when it ended the match,
// records the match in history.
func committed(ctx context.Context, logger *slog.Logger, history HistoryStore, broker *Broker, sess *Session, res match.TurnResult) {
	switch {
	case res.MatchWon:
		logger.Info("match finished", "match_id", sess.ID, "winner", res.Player)
	case res.LegWon:
		logger.Info("leg won", "match_id", sess.ID, "player", res.Player, "set_won", res.SetWon)
	}

	if sum, ok := sess.Archive(ctx); ok {
		if err := history.Append(ctx, sess.ID, sum); err != nil {
			logger.Error("recording match history", "match_id", sess.ID, "error", err)
		}
	}
	broker.Publish(turnEvent(sess.ID, res))
}

func handleSubmitTurn(logger *slog.Logger, history HistoryStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TurnRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := sessionFrom(r)
		res, err := sess.SubmitTurn(r.Context(), req.Darts)
		if err != nil {
			writeMatchError(w, logger, err)
			return
		}
		committed(r.Context(), logger, history, broker, sess, res)

		writeJSON(w, http.StatusOK, PlayResponse{Result: &res, Match: sess.View()})
	}
}

func handleAddDart(logger *slog.Logger, history HistoryStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		d, err := darts.Parse(req.Dart)
		if err != nil {
			writeMatchError(w, logger, err)
			return
		}

		sess := sessionFrom(r)
		res, err := sess.AddDart(r.Context(), d)
		if err != nil {
			writeMatchError(w, logger, err)
			return
		}
		if res != nil {
			committed(r.Context(), logger, history, broker, sess, *res)
		} else {
			broker.Publish(Event{Type: EventDart, MatchID: sess.ID, Dart: d.Token()})
		}

		writeJSON(w, http.StatusOK, PlayResponse{Result: res, Match: sess.View()})
	}
}

func handleEndTurn(logger *slog.Logger, history HistoryStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		res, err := sess.EndTurn(r.Context())
		if err != nil {
			writeMatchError(w, logger, err)
			return
		}
		committed(r.Context(), logger, history, broker, sess, res)

		writeJSON(w, http.StatusOK, PlayResponse{Result: &res, Match: sess.View()})
	}
}

func handleUndo(logger *slog.Logger, history HistoryStore, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		undone, unarchived, err := sess.UndoDart(r.Context())
		if err != nil {
			writeMatchError(w, logger, err)
			return
		}
		if unarchived {
			// The match is open again; its finish no longer stands.
			if err := history.Remove(r.Context(), sess.ID); err != nil {
				logger.Error("removing match history", "match_id", sess.ID, "error", err)
			}
			logger.Info("match reopened", "match_id", sess.ID)
		}
		if undone == "" {
			writeError(w, http.StatusConflict, "nothing to undo")
			return
		}
		broker.Publish(Event{Type: EventUndo, MatchID: sess.ID, Undone: undone})

		writeJSON(w, http.StatusOK, PlayResponse{Undone: undone, Match: sess.View()})
	}
}
