package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/utils"
)

// EnforceHost allows requests only if the Host header, without its port,
// matches one of allowedHosts. Patterns like "*.example.com" match any
// subdomain. An empty list lets every request through.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		patterns = append(patterns, strings.ToLower(h))
	}
	log = log.Named("host")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(utils.ParseHostNoPort(r.Host))
			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Debug("host rejected",
				logger.String("host", r.Host),
				logger.String("path", r.URL.Path))
			reject(w, http.StatusForbidden, "forbidden")
		})
	}
}

// matchHost reports whether host equals pattern or, for "*.example.com",
// is a subdomain of example.com.
func matchHost(host, pattern string) bool {
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix)
	}
	return host == pattern
}
