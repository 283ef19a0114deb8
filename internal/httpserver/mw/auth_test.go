package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
)

type stubAuthenticator map[string]auth.Principal

func (s stubAuthenticator) Authenticate(_ context.Context, raw string) (auth.Principal, error) {
	p, ok := s[raw]
	if !ok {
		return auth.Principal{}, errs.ErrUnauthorized
	}
	return p, nil
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer   abc  ", want: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer", ok: false},
		{header: "Bearer   ", ok: false},
		{header: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		if ok != tt.ok || got != tt.want {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	a := stubAuthenticator{"good": {UserID: "u1", Username: "alice"}}
	var seen string
	h := RequireAuth(a, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFrom(r.Context())
		seen = p.UserID
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer good", status: http.StatusOK},
		{name: "unknown token", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && seen != "u1" {
				t.Errorf("principal user = %q, want u1", seen)
			}
			if tt.status != http.StatusOK && seen != "" {
				t.Error("next handler ran for a rejected request")
			}
		})
	}
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"jump.example.com", "jump.example.com", true},
		{"a.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"jump.other.com", "jump.example.com", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"Jump.example.com", "*.lan"}, logger.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		host   string
		status int
	}{
		{"jump.example.com", http.StatusOK},
		{"JUMP.example.com:8443", http.StatusOK},
		{"nas.lan", http.StatusOK},
		{"evil.com", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
		req.Host = tt.host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("host %q: status = %d, want %d", tt.host, rec.Code, tt.status)
		}
	}
}
