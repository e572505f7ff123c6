package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool     `json:"ready"`
	Errors []string `json:"errors,omitempty"`
}

// Readyz is ready once a schema is loaded and the configuration is valid.
// Upstream reachability is not probed.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var errs []string
		if d.Schemas == nil || d.Schemas.Current() == nil {
			errs = append(errs, "schema not loaded")
		}
		if v := d.Config.Validate(); !v.IsValid {
			errs = append(errs, v.Errors...)
		}

		status := http.StatusOK
		if len(errs) > 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: len(errs) == 0, Errors: errs})
	}
}
