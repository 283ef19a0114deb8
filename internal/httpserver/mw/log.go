package mw

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
)

// statusWriter captures status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

type accessKey struct{}

// access is filled in by inner middlewares while the request runs.
type access struct {
	user atomic.Value // string
}

// annotateUser records the authenticated user on the access log line of ctx's request.
func annotateUser(ctx context.Context, userID string) {
	if a, ok := ctx.Value(accessKey{}).(*access); ok {
		a.user.Store(userID)
	}
}

// Log returns a middleware that logs one line per HTTP request. Server
// errors log at error level, client errors at warn; probes
// (/healthz, /readyz) only at debug.
func Log(loggerClient logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}
			a := &access{}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), accessKey{}, a)))

			if ww.status == 0 {
				ww.status = http.StatusOK
			}
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", ww.status),
				logger.Int("bytes", ww.bytes),
				logger.Duration("duration", time.Since(start)),
				logger.String("remote_ip", r.RemoteAddr),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			if user, _ := a.user.Load().(string); user != "" {
				fields = append(fields, logger.String("user", user))
			}

			switch {
			case ww.status >= http.StatusInternalServerError:
				loggerClient.Error("http_request", fields...)
			case r.URL.Path == "/healthz" || r.URL.Path == "/readyz":
				loggerClient.Debug("http_request", fields...)
			case ww.status >= http.StatusBadRequest:
				loggerClient.Warn("http_request", append(fields, logger.String("user_agent", r.UserAgent()))...)
			default:
				loggerClient.Info("http_request", fields...)
			}
		})
	}
}
