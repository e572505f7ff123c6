package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/navdeck/internal/domain"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
)

// View serves the grouped navigation model for ?role=, guest by default.
func View(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := strings.TrimSpace(r.URL.Query().Get("role"))
		if role == "" {
			role = domain.DefaultRole
		}

		view, err := d.Catalog.View(r.Context(), role)
		if err != nil {
			failure(w, r, d, err, "Database ID is required", "Failed to fetch data from Notion")
			return
		}

		if d.Stats != nil {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), time.Second)
			if err := d.Stats.IncrementRoleView(ctx, role); err != nil {
				d.Logger.Debug("failed to count role view", logger.Error(err))
			}
			cancel()
		}

		writeJSON(w, http.StatusOK, view)
	}
}
