package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/navdeck/internal/catalog"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// failure maps a pipeline error to a response. Missing or malformed source
// ids are client errors, everything else is reported as failedMsg without
// upstream details.
func failure(w http.ResponseWriter, r *http.Request, d deps.Deps, err error, missingMsg, failedMsg string) {
	if errors.Is(err, catalog.ErrSourceRequired) {
		d.Logger.Debug("request rejected", logger.String("path", r.URL.Path), logger.Error(err))
		writeError(w, http.StatusBadRequest, missingMsg)
		return
	}

	d.Logger.Error("request failed", logger.String("path", r.URL.Path), logger.Error(err))
	writeError(w, http.StatusInternalServerError, failedMsg)
}
