package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/search"
)

type searchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// Search ranks the caller's bookmarks: ?q=<query>[&space=<id>][&limit=<n>].
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := strings.TrimSpace(q.Get("q"))

		limit := 0
		if raw := q.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, r, d, errs.Invalid("limit", "must be a positive integer"))
				return
			}
			limit = n
		}

		hits, err := d.Workspace.Search(r.Context(), userID(r), query, q.Get("space"), limit)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Debug("search request",
			logger.String("query", query),
			logger.Int("hits", len(hits)))
		writeJSON(w, http.StatusOK, searchResponse{Query: query, Hits: hits})
	}
}
