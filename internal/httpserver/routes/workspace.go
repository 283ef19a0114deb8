package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/mw"
)

func init() { Register("workspace", registerWorkspace) }

const (
	spacePath      = "/api/spaces/{spaceID}"
	collectionPath = spacePath + "/collections/{collectionID}"
	bookmarkPath   = collectionPath + "/bookmarks/{bookmarkID}"
)

func registerWorkspace(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Use(mw.RequireAuth(d.Auth, d.Logger))

		r.Get("/api/state", handlers.State(d))
		r.Get("/api/state/current", handlers.CurrentSpace(d))
		r.Put("/api/state/current", handlers.SelectSpace(d))
		r.Delete("/api/data", handlers.ClearAll(d))

		r.Post("/api/spaces", handlers.CreateSpace(d))
		r.Patch(spacePath, handlers.UpdateSpace(d))
		r.Delete(spacePath, handlers.DeleteSpace(d))

		r.Post(spacePath+"/collections", handlers.CreateCollection(d))
		r.Put(spacePath+"/collections/order", handlers.ReorderCollections(d))
		r.Patch(collectionPath, handlers.UpdateCollection(d))
		r.Delete(collectionPath, handlers.DeleteCollection(d))
		r.Post(collectionPath+"/move", handlers.MoveCollection(d))

		r.Post(collectionPath+"/bookmarks", handlers.CreateBookmark(d))
		r.Put(collectionPath+"/bookmarks/order", handlers.ReorderBookmarks(d))
		r.Patch(bookmarkPath, handlers.UpdateBookmark(d))
		r.Delete(bookmarkPath, handlers.DeleteBookmark(d))
		r.Post(bookmarkPath+"/move", handlers.MoveBookmark(d))

		r.Get("/api/export", handlers.Export(d))
		r.Get("/api/export/spaces/{spaceID}", handlers.ExportSpace(d))
		r.Post("/api/import", handlers.Import(d))
		r.Post("/api/import/homepage", handlers.ImportHomepage(d))

		r.Get("/api/search", handlers.Search(d))
		r.Get("/api/public/me", handlers.PublicMe(d))
	})
}
