package routes

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	name string
	reg  Registrar
	mws  []Middleware
}

var registry = map[string]entry{}

// Register adds a named route group with optional middlewares applied to
// all of its routes. Registering a name twice panics.
func Register(name string, reg Registrar, mws ...Middleware) {
	if _, dup := registry[name]; dup {
		panic("routes: group registered twice: " + name)
	}
	registry[name] = entry{name: name, reg: reg, mws: mws}
}

// Groups lists the registered group names in the order RegisterAll mounts them.
func Groups() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterAll mounts every group on r, in name order. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, name := range Groups() {
		e := registry[name]
		target := r
		if len(e.mws) > 0 {
			target = r.With(e.mws...)
		}
		e.reg(target, d)
		d.Logger.Debug("routes registered", logger.String("group", name))
	}
}
