package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/codec"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/sources/homepage"
)

func writeDocument(w http.ResponseWriter, d deps.Deps, doc codec.Document) {
	product := d.ProductName
	if product == "" {
		product = "jump"
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, codec.ExportFilename(product, d.Now().UTC())))
	if err := codec.Encode(w, doc); err != nil {
		d.Logger.Debug("failed to write export", logger.Error(err))
	}
}

// Export downloads the caller's whole graph.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := d.Workspace.Export(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeDocument(w, d, doc)
	}
}

func ExportSpace(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := d.Workspace.ExportSpace(r.Context(), userID(r), chi.URLParam(r, "spaceID"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeDocument(w, d, doc)
	}
}

// Import replaces the caller's graph with an uploaded export document.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readBody(w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		snap, err := d.Workspace.Import(r.Context(), userID(r), data)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// ImportHomepage appends the groups of a Homepage services.yaml or
// bookmarks.yaml body (?kind=services|bookmarks) to a space (?space=, default current).
func ImportHomepage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		kind, err := homepage.ParseKind(q.Get("kind"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		data, err := readBody(w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		groups, err := homepage.Decode(kind, data)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		sp, err := d.Workspace.ImportHomepage(r.Context(), userID(r), q.Get("space"), groups)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, sp)
	}
}
