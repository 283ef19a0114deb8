package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/mw"
)

func init() { Register("public", registerPublic) }

func registerPublic(r chi.Router, d deps.Deps) {
	open := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	open.Get("/api/public/collections/{collectionID}", handlers.PublicCollection(d))
	open.Get("/api/public/users/{username}", handlers.PublicUser(d))
}
