package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
)

const defaultMaxBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	status := statusOf(err)
	resp := errorResponse{Error: err.Error()}

	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	if status == http.StatusUnauthorized {
		resp.Error = "unauthorized"
	}
	if status == http.StatusInternalServerError {
		d.Logger.Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
		resp.Error = http.StatusText(status)
	}
	writeJSON(w, status, resp)
}

func readBody(w http.ResponseWriter, r *http.Request, d deps.Deps) ([]byte, error) {
	limit := d.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.Invalidf("body", "exceeds %d bytes", limit)
		}
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return data, nil
}

// decode reads the request body into T, rejecting unknown keys.
func decode[T any](w http.ResponseWriter, r *http.Request, d deps.Deps) (T, error) {
	data, err := readBody(w, r, d)
	if err != nil {
		var zero T
		return zero, err
	}
	return domain.DecodeStrict[T](data)
}

// userID returns the authenticated user. Routes behind mw.RequireAuth always have one.
func userID(r *http.Request) string {
	p, _ := auth.PrincipalFrom(r.Context())
	return p.UserID
}
