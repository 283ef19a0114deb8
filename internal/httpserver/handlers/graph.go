package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
)

type createSpaceRequest struct {
	Name string `json:"name"`
}

type orderRequest struct {
	Order []string `json:"order"`
}

type moveCollectionRequest struct {
	ToSpaceID string `json:"toSpaceId"`
}

type moveBookmarkRequest struct {
	ToCollectionID string `json:"toCollectionId"`
	Index          *int   `json:"index"` // omitted appends
}

func (m moveBookmarkRequest) position() int {
	if m.Index == nil {
		return -1
	}
	return *m.Index
}

func noContent(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	if err != nil {
		writeError(w, r, d, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────────────────────────
// Spaces
// ─────────────────────────────────────────────────────────────────

func CreateSpace(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[createSpaceRequest](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		sp, err := d.Workspace.CreateSpace(r.Context(), userID(r), in.Name)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, sp)
	}
}

func UpdateSpace(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := decode[domain.SpacePatch](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		sp, err := d.Workspace.UpdateSpace(r.Context(), userID(r), chi.URLParam(r, "spaceID"), p)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, sp)
	}
}

func DeleteSpace(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noContent(w, r, d, d.Workspace.DeleteSpace(r.Context(), userID(r), chi.URLParam(r, "spaceID")))
	}
}

// ─────────────────────────────────────────────────────────────────
// Collections
// ─────────────────────────────────────────────────────────────────

func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := decode[domain.CollectionFields](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		c, err := d.Workspace.CreateCollection(r.Context(), userID(r), chi.URLParam(r, "spaceID"), f)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func UpdateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := decode[domain.CollectionPatch](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		c, err := d.Workspace.UpdateCollection(r.Context(), userID(r),
			chi.URLParam(r, "spaceID"), chi.URLParam(r, "collectionID"), p)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func ReorderCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[orderRequest](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		sp, err := d.Workspace.ReorderCollections(r.Context(), userID(r), chi.URLParam(r, "spaceID"), in.Order)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, sp)
	}
}

func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noContent(w, r, d, d.Workspace.DeleteCollection(r.Context(), userID(r),
			chi.URLParam(r, "spaceID"), chi.URLParam(r, "collectionID")))
	}
}

func MoveCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[moveCollectionRequest](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		sp, err := d.Workspace.MoveCollection(r.Context(), userID(r),
			chi.URLParam(r, "spaceID"), chi.URLParam(r, "collectionID"), in.ToSpaceID)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, sp)
	}
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := decode[domain.BookmarkFields](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		b, err := d.Workspace.CreateBookmark(r.Context(), userID(r),
			chi.URLParam(r, "spaceID"), chi.URLParam(r, "collectionID"), f)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := decode[domain.BookmarkPatch](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		b, err := d.Workspace.UpdateBookmark(r.Context(), userID(r),
			chi.URLParam(r, "spaceID"), chi.URLParam(r, "collectionID"), chi.URLParam(r, "bookmarkID"), p)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func ReorderBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[orderRequest](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		c, err := d.Workspace.ReorderBookmarks(r.Context(), userID(r),
			chi.URLParam(r, "spaceID"), chi.URLParam(r, "collectionID"), in.Order)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noContent(w, r, d, d.Workspace.DeleteBookmark(r.Context(), userID(r),
			chi.URLParam(r, "spaceID"), chi.URLParam(r, "collectionID"), chi.URLParam(r, "bookmarkID")))
	}
}

func MoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decode[moveBookmarkRequest](w, r, d)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		c, err := d.Workspace.MoveBookmark(r.Context(), userID(r),
			chi.URLParam(r, "spaceID"), chi.URLParam(r, "collectionID"), chi.URLParam(r, "bookmarkID"),
			in.ToCollectionID, in.position())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}
