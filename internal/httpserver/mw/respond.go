package mw

import (
	"encoding/json"
	"net/http"
)

// reject writes the JSON error body the handlers use, {"error": msg}.
func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
