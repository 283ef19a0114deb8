package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
)

// Authenticator turns a raw bearer token into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (auth.Principal, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>"
// header and stores the principal in the request context.
func RequireAuth(a Authenticator, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}
			p, err := a.Authenticate(r.Context(), raw)
			if err != nil {
				log.Debug("rejected bearer token",
					logger.String("path", r.URL.Path),
					logger.Error(err))
				unauthorized(w)
				return
			}
			annotateUser(r.Context(), p.UserID)
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="jump"`)
	reject(w, http.StatusUnauthorized, errs.ErrUnauthorized.Error())
}
