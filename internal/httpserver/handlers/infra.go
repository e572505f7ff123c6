package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/navdeck/internal/domain"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	SchemaVersion *int64 `json:"schema_version,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
	Sources    []domain.SourceStats       `json:"sources"`
	RoleViews  map[string]int64           `json:"role_views,omitempty"`
}

// Infra reports component health and the recorded fetch statistics.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"schema": checkSchema(d),
			"notion": checkNotion(d),
			"redis":  checkRedis(ctx, d),
		}

		resp := infraResponse{
			Components: components,
			Sources:    []domain.SourceStats{},
		}
		if d.Stats != nil && components["redis"].OK {
			if sources, err := d.Stats.GetAllSourceStats(ctx); err == nil {
				resp.Sources = sources
			} else {
				d.Logger.Warn("failed to read fetch stats", logger.Error(err))
			}
			if views, err := d.Stats.GetRoleViews(ctx); err == nil {
				resp.RoleViews = views
			} else {
				d.Logger.Warn("failed to read role views", logger.Error(err))
			}
		}
		resp.Status = overallStatus(components, resp.Sources)

		writeJSON(w, http.StatusOK, resp)
	}
}

func overallStatus(components map[string]componentStatus, sources []domain.SourceStats) string {
	if !components["schema"].OK || !components["notion"].OK {
		return "critical"
	}
	if !components["redis"].OK {
		return "degraded"
	}
	for _, s := range sources {
		if !s.Healthy() {
			return "degraded"
		}
	}
	return "operational"
}

func checkSchema(d deps.Deps) componentStatus {
	if d.Schemas == nil {
		return componentStatus{OK: false, Error: "reloader not initialized"}
	}
	snap := d.Schemas.Current()
	if snap == nil {
		return componentStatus{OK: false, Error: "not loaded"}
	}
	version := snap.Version
	return componentStatus{
		OK:            true,
		SchemaVersion: &version,
		LastReload:    snap.LoadedAt.Format("2006-01-02 15:04:05"),
	}
}

func checkNotion(d deps.Deps) componentStatus {
	v := d.Config.Validate()
	if !v.IsValid {
		return componentStatus{OK: false, Impact: "navigation-unavailable", Error: v.Errors[0]}
	}
	return componentStatus{OK: true}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "fetch-stats-disabled",
			Error:  "client not initialized",
		}
	}

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "fetch-stats-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "fetch-stats-enabled",
	}
}
