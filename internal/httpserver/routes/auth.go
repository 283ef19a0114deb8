package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/mw"
)

func init() { Register("auth", registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limited := r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.AuthBurst,
			RefillPerIPPerMin: d.AuthRefillPerMin,
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
			Now:               d.Now,
			Logger:            d.Logger.Named("ratelimit"),
		}),
	)
	limited.Post("/api/auth/signup", handlers.Signup(d))
	limited.Post("/api/auth/login", handlers.Login(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Use(mw.RequireAuth(d.Auth, d.Logger))

		r.Post("/api/auth/logout", handlers.Logout(d))
		r.Get("/api/auth/me", handlers.Me(d))
		r.Patch("/api/auth/me", handlers.UpdateProfile(d))
		r.Put("/api/auth/password", handlers.ChangePassword(d))
	})
}
