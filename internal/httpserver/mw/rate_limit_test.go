package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterTake(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 6, Now: func() time.Time { return now }})

	for i, want := range []int{1, 0} {
		d := l.take("1.2.3.4", now)
		if !d.allowed || d.remaining != want {
			t.Fatalf("take #%d = %+v, want allowed with %d remaining", i+1, d, want)
		}
	}

	d := l.take("1.2.3.4", now)
	if d.allowed {
		t.Fatal("third take should be rejected")
	}
	if d.retryAfter != 10*time.Second {
		t.Errorf("retryAfter = %v, want 10s", d.retryAfter)
	}

	if d := l.take("5.6.7.8", now); !d.allowed {
		t.Error("other clients have their own bucket")
	}
	if d := l.take("1.2.3.4", now.Add(10*time.Second)); !d.allowed {
		t.Error("bucket should refill one token after 10s")
	}
}

func TestLimiterSweepsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{
		Burst:         1,
		IdleTTL:       time.Minute,
		SweepInterval: time.Minute,
		Now:           func() time.Time { return now },
	})
	l.take("a", now)
	l.take("b", now.Add(2*time.Minute))

	if _, ok := l.buckets["a"]; ok {
		t.Error("idle bucket a should have been swept")
	}
	if len(l.buckets) != 1 {
		t.Errorf("buckets = %d, want 1", len(l.buckets))
	}
}

func TestRateLimitHeaders(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, Now: func() time.Time { return now }})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(); rec.Code != http.StatusOK || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("first request: status %d, remaining %q", rec.Code, rec.Header().Get("X-RateLimit-Remaining"))
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
}
