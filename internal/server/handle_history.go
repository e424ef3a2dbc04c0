package server

import (
	"log/slog"
	"net/http"
	"strconv"
)

func handleListHistory(logger *slog.Logger, history HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive number")
				return
			}
			limit = n
		}

		entries, err := history.List(r.Context(), limit)
		if err != nil {
			logger.Error("listing history", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleClearHistory(logger *slog.Logger, history HistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := history.Clear(r.Context()); err != nil {
			logger.Error("clearing history", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logger.Info("history cleared")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
