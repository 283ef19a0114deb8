package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/index"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/version"
	"github.com/MrSnakeDoc/jump-spaces/internal/workspace"
)

// Pinger reports whether a backend answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Build     version.Info
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts   []string // Host headers allowed to access the server
	AllowedCIDRS   []string // IPs allowed to access infra endpoints
	AllowedOrigins []string // CORS origins
	TrustProxy     bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	Auth       *auth.Service
	Workspace  *workspace.Service
	ShareIndex *index.MemoryIndex // public collection id -> owner

	StoreKind   string        // memory | file | redis | postgres
	Storage     Pinger        // nil when the store has nothing to ping
	RedisClient *redis.Client // nil when redis is not configured

	AuthBurst        int   // auth endpoints rate limit burst per IP
	AuthRefillPerMin int   // auth endpoints refill per IP per minute
	MaxBodyBytes     int64 // request body limit (0 = 1 MiB)
	ProductName      string
}

// Now returns d.TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
