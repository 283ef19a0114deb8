package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
)

// PublicCollection serves one shared collection without authentication.
func PublicCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pc, err := d.Workspace.PublicCollection(r.Context(), chi.URLParam(r, "collectionID"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, pc)
	}
}

// PublicUser lists the shared collections of a username.
func PublicUser(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "username")))
		id, err := d.Auth.LookupUsername(r.Context(), username)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		prof, err := d.Workspace.PublicProfile(r.Context(), id, username)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, prof)
	}
}

// PublicMe lists the caller's own shared collections with their links.
func PublicMe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, err := d.Auth.Me(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		prof, err := d.Workspace.PublicProfile(r.Context(), me.ID, me.Username)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, prof)
	}
}
