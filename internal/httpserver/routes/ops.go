package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/mw"
)

func init() { Register("ops", registerOps, clientCIDRs) }

// Ops endpoints are gated by client IP.
func clientCIDRs(d deps.Deps) func(http.Handler) http.Handler {
	return mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}

func registerOps(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/infra", handlers.Infra(d))
	r.Get("/env-check", handlers.EnvCheck(d))
	r.With(allowedHosts(d)).Post("/reload", handlers.Reload(d))
}
