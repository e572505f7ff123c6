package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
)

func SiteConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := d.Catalog.SiteConfig(r.Context())
		if err != nil {
			failure(w, r, d, err, "Config database ID is required", "Failed to fetch config from Notion")
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}
