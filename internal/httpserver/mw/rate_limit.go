package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/utils"
)

// RateLimitConfig configures a per-client-IP token bucket.
type RateLimitConfig struct {
	Burst             int // bucket capacity
	RefillPerIPPerMin int // tokens added per minute
	MaxEntries        int // sweep idle buckets once this many are tracked (0 = unbounded)
	SweepInterval     time.Duration
	IdleTTL           time.Duration
	TrustProxy        bool             // resolve the client IP from proxy headers
	Now               func() time.Time // nil selects time.Now
	Logger            logger.Logger    // nil disables rejection logs
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.RefillPerIPPerMin < 1 {
		c.RefillPerIPPerMin = 1
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return c
}

type bucket struct {
	tokens   float64
	refilled time.Time
	seen     time.Time
}

// decision is the outcome of one take from a bucket.
type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
}

type limiter struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	perSecond float64
	buckets   map[string]*bucket
	swept     time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	cfg = cfg.withDefaults()
	return &limiter{
		cfg:       cfg,
		perSecond: float64(cfg.RefillPerIPPerMin) / 60.0,
		buckets:   make(map[string]*bucket, 1024),
		swept:     cfg.Now(),
	}
}

// take consumes one token for key at now.
func (l *limiter) take(key string, now time.Time) decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) >= l.cfg.SweepInterval ||
		(l.cfg.MaxEntries > 0 && len(l.buckets) >= l.cfg.MaxEntries) {
		l.sweep(now)
	}

	capacity := float64(l.cfg.Burst)
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, refilled: now}
		l.buckets[key] = b
	}
	b.seen = now

	if elapsed := now.Sub(b.refilled).Seconds(); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*l.perSecond)
		b.refilled = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return decision{allowed: true, remaining: int(b.tokens)}
	}
	wait := time.Duration(math.Ceil((1-b.tokens)/l.perSecond)) * time.Second
	return decision{retryAfter: max(wait, time.Second)}
}

func (l *limiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.seen) > l.cfg.IdleTTL {
			delete(l.buckets, key)
		}
	}
	l.swept = now
}

// RateLimit rejects clients that exhaust their bucket with 429 and a Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, l.cfg.TrustProxy)
			d := l.take(ip, l.cfg.Now())

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			if !d.allowed {
				l.cfg.Logger.Warn("rate limited",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path),
					logger.Duration("retry_after", d.retryAfter))
				w.Header().Set("Retry-After", strconv.Itoa(int(d.retryAfter/time.Second)))
				reject(w, http.StatusTooManyRequests, errs.ErrRateLimited.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
