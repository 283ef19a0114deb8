package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
)

type selectSpaceRequest struct {
	SpaceID string `json:"spaceId"`
}

// State returns the caller's whole snapshot: spaces and current space.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := d.Workspace.Snapshot(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func CurrentSpace(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sp, err := d.Workspace.CurrentSpace(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, sp)
	}
}

func SelectSpace(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[selectSpaceRequest](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		snap, err := d.Workspace.SelectSpace(r.Context(), userID(r), in.SpaceID)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// ClearAll drops every space and starts over with a default one.
func ClearAll(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := d.Workspace.ClearAll(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
