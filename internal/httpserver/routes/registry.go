package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
)

// Guard builds a group middleware once the server dependencies are known.
type Guard func(d deps.Deps) func(http.Handler) http.Handler

type group struct {
	name   string
	mount  func(r chi.Router, d deps.Deps)
	guards []Guard
}

var groups []group

// Register adds a named route group from an init func. Its guards wrap
// every route of the group, outermost first.
func Register(name string, mount func(r chi.Router, d deps.Deps), guards ...Guard) {
	groups = append(groups, group{name: name, mount: mount, guards: guards})
}

// RegisterAll mounts the groups on r in registration order.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		r.Group(func(r chi.Router) {
			for _, guard := range g.guards {
				r.Use(guard(d))
			}
			g.mount(r, d)
		})
		d.Logger.Debug("route group mounted",
			logger.String("group", g.name),
			logger.Int("guards", len(g.guards)))
	}
}
