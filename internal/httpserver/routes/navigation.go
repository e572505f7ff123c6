package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/mw"
)

func init() { Register("navigation", registerNavigation, allowedHosts, perClientRate) }

func allowedHosts(d deps.Deps) func(http.Handler) http.Handler {
	return mw.EnforceHost(d.AllowedHosts, d.Logger)
}

func perClientRate(d deps.Deps) func(http.Handler) http.Handler {
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.Config.RateLimitBurst,
		RefillPerIPPerMin: d.Config.RateLimitPerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})
}

func registerNavigation(r chi.Router, d deps.Deps) {
	r.Get("/menu", handlers.Menu(d))
	r.Get("/config", handlers.SiteConfig(d))
	r.Get("/view", handlers.View(d))
	r.Get("/roles", handlers.Roles(d))
	r.Get("/auth/roles", handlers.Roles(d))
	r.Post("/auth", handlers.Auth(d))
}
