package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
)

type componentStatus struct {
	OK       bool   `json:"ok"`
	Mode     string `json:"mode,omitempty"`
	Count    *int   `json:"count,omitempty"`
	LastSync string `json:"last_sync,omitempty"`
	Impact   string `json:"impact,omitempty"`
	Error    string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the storage, redis and in-memory components.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"storage": checkStorage(r.Context(), d),
			"redis":   checkRedis(r.Context(), d),
		}

		if d.ShareIndex != nil {
			shared := d.ShareIndex.Count()
			lastSync := "never"
			if t := d.ShareIndex.GetLastSync(); !t.IsZero() {
				lastSync = t.Format("2006-01-02 15:04:05")
			}
			components["share_index"] = componentStatus{OK: true, Count: &shared, LastSync: lastSync}
		}
		if d.Workspace != nil {
			cached := d.Workspace.Cached()
			components["workspaces"] = componentStatus{OK: true, Mode: "cached", Count: &cached}
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if s, ok := components["storage"]; ok && !s.OK {
		return "critical" // snapshots cannot be loaded or saved
	}
	if r, ok := components["redis"]; ok && !r.OK && r.Mode != "disabled" {
		return "degraded"
	}
	return "ok"
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	if d.Storage == nil {
		return componentStatus{OK: true, Mode: d.StoreKind}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.Storage.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.StoreKind, Impact: "snapshots-unavailable", Error: "timeout"}
	}
	return componentStatus{OK: true, Mode: d.StoreKind}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: true, Mode: "disabled", Impact: "token-revocation-in-memory"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "logout-revocation-unavailable",
			Error:  "timeout",
		}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}
