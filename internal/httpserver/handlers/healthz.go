package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/version"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Store         string  `json:"store,omitempty"`
	version.Info
}

// Healthz reports liveness only; it never touches the snapshot store.
func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			UptimeSeconds: d.Now().Sub(d.StartTime).Seconds(),
			Store:         d.StoreKind,
			Info:          d.Build,
		})
	}
}
