package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
)

// sourceParams are checked in order; the first non-empty one wins.
var sourceParams = []string{"sourceId", "databaseId", "pageId"}

// Menu serves the flat menu of a link source.
func Menu(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var sourceID string
		for _, p := range sourceParams {
			if sourceID = q.Get(p); sourceID != "" {
				break
			}
		}

		menu, err := d.Catalog.Menu(r.Context(), sourceID)
		if err != nil {
			failure(w, r, d, err, "Database ID is required", "Failed to fetch data from Notion")
			return
		}
		writeJSON(w, http.StatusOK, menu)
	}
}
