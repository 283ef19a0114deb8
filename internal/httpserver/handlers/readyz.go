package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store,omitempty"`
	Error string `json:"error,omitempty"`
}

// Readyz reports whether the snapshot store answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Ready: true, Store: d.StoreKind}
		if d.Storage != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Storage.Ping(ctx); err != nil {
				d.Logger.Warn("storage not ready", logger.Error(err))
				resp.Ready = false
				resp.Error = "storage unreachable"
			}
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
