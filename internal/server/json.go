package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ejdedart/dartscore/internal/darts"
	"github.com/ejdedart/dartscore/internal/match"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeMatchError maps domain and store errors to a response. Anything
// unexpected is logged and reported as an internal error.
func writeMatchError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, darts.ErrInvalidToken),
		errors.Is(err, darts.ErrUnknownRule),
		errors.Is(err, match.ErrInvalidSettings),
		errors.Is(err, match.ErrInvalidPlayers),
		errors.Is(err, match.ErrEmptyTurn),
		errors.Is(err, match.ErrTooManyDarts):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errNoToken):
		writeError(w, http.StatusUnauthorized, "missing or invalid scorer token")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "match not found")
	case errors.Is(err, match.ErrMatchFinished), errors.Is(err, ErrDartsPending):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
