package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/navdeck/internal/config"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
)

type envCheckResponse struct {
	Success     bool                   `json:"success"`
	Validation  config.Validation      `json:"validation"`
	Environment config.EnvironmentInfo `json:"environment"`
	Timestamp   string                 `json:"timestamp"`
}

// EnvCheck reports configuration presence. Values are never echoed.
func EnvCheck(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envCheckResponse{
			Success:     true,
			Validation:  d.Config.Validate(),
			Environment: d.Config.EnvironmentInfo(),
			Timestamp:   d.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}
