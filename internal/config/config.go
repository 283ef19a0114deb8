package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Snapshot store backends selectable with JUMP_STORE.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Storage selects and configures the snapshot store. The CLI commands that
// only read or write snapshots load this part alone.
type Storage struct {
	Store       string        // memory | file | redis | postgres
	DataDir     string        // file store directory
	SnapshotTTL time.Duration // local snapshot expiry (0 = never)

	// Redis (JUMP_STORE=redis, and token revocation when JUMP_REDIS_ADDR is set)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Postgres (JUMP_STORE=postgres)
	PostgresDSN            string
	PostgresConnectTimeout time.Duration
	PostgresRetryInterval  time.Duration
	PostgresMaxWait        time.Duration
	PostgresPingTimeout    time.Duration
	PostgresWarnThreshold  int
}

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline
	MaxBodyBytes    int64         // request body limit

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Storage

	JanitorInterval   time.Duration // sweep of expired snapshots and idle workspaces
	IdleTimeout       time.Duration // cached workspace eviction
	ShareSyncInterval time.Duration // share index rebuild (0 = startup only)
	PublicBaseURL     string        // base of share links (ex: https://jump.domain.ext)

	JWTSecret        string
	TokenTTL         time.Duration
	AuthBurst        int
	AuthRefillPerMin int

	AllowedHosts   []string // optional, restrict access to specific Host headers
	AllowedCIDRS   []string // optional, restrict infra endpoints to specific IPs
	AllowedOrigins []string // CORS origins, "*" allows any
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("JUMP_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("JUMP_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("JUMP_REQUEST_TIMEOUT", 10*time.Second),
		MaxBodyBytes:    int64(getenvInt("JUMP_MAX_BODY_BYTES", 1<<20)),

		// Logging
		LogLevel:  getenv("JUMP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("JUMP_PRETTY_LOG", true),

		Storage: LoadStorage(),

		// Background jobs
		JanitorInterval:   mustDuration("JUMP_JANITOR_INTERVAL", time.Hour),
		IdleTimeout:       mustDuration("JUMP_IDLE_TIMEOUT", 30*time.Minute),
		ShareSyncInterval: mustDuration("JUMP_SHARE_SYNC_INTERVAL", 0),
		PublicBaseURL:     getenv("JUMP_PUBLIC_BASE_URL", "http://localhost:8080"),

		// Auth
		JWTSecret:        requireEnv("JUMP_JWT_SECRET"),
		TokenTTL:         mustDuration("JUMP_TOKEN_TTL", 24*time.Hour),
		AuthBurst:        getenvInt("JUMP_AUTH_BURST", 10),
		AuthRefillPerMin: getenvInt("JUMP_AUTH_REFILL_PER_MIN", 5),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("JUMP_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("JUMP_ALLOWED_CIDRS", "")),
		AllowedOrigins: splitAndTrim(getenv("JUMP_ALLOWED_ORIGINS", "")),
		TrustProxy:     mustBool("JUMP_TRUST_PROXY", true),
	}

	if len(cfg.JWTSecret) < 32 {
		panic("❌ FATAL: JUMP_JWT_SECRET must be at least 32 bytes")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.JWTSecret = "***REDACTED***"
		cfgCopy.Storage = cfg.Storage.redacted()
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// LoadStorage reads the store selection and the settings of the chosen backend.
func LoadStorage() Storage {
	s := Storage{
		Store:       strings.ToLower(getenv("JUMP_STORE", StoreMemory)),
		DataDir:     getenv("JUMP_DATA_DIR", "/app/data"),
		SnapshotTTL: mustDuration("JUMP_SNAPSHOT_TTL", 30*24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("JUMP_REDIS_ADDR", ""),
		RedisUser:             getenv("JUMP_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("JUMP_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("JUMP_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("JUMP_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Postgres settings
		PostgresConnectTimeout: mustDuration("JUMP_POSTGRES_CONNECT_TIMEOUT", 30*time.Second),
		PostgresRetryInterval:  mustDuration("JUMP_POSTGRES_RETRY_INTERVAL", 2*time.Second),
		PostgresMaxWait:        mustDuration("JUMP_POSTGRES_MAX_WAIT", 10*time.Second),
		PostgresPingTimeout:    mustDuration("JUMP_POSTGRES_PING_TIMEOUT", 5*time.Second),
		PostgresWarnThreshold:  getenvInt("JUMP_POSTGRES_WARN_THRESHOLD", 3),
	}

	switch s.Store {
	case StoreMemory, StoreFile:
	case StoreRedis:
		s.RedisAddr = requireEnv("JUMP_REDIS_ADDR")
	case StorePostgres:
		s.PostgresDSN = requireEnv("JUMP_POSTGRES_DSN")
	default:
		panic(fmt.Sprintf("❌ FATAL: JUMP_STORE must be one of memory, file, redis, postgres, got %q", s.Store))
	}

	// Validate Redis password configuration
	if s.RedisAddr != "" && s.RedisPasswordRequired && s.RedisPassword == "" {
		panic("❌ FATAL: JUMP_REDIS_PASSWORD is required when JUMP_REDIS_PASSWORD_REQUIRED=true")
	}

	return s
}

func (s Storage) redacted() Storage {
	s.RedisPassword = "***REDACTED***"
	if s.RedisUser != "" {
		s.RedisUser = "***REDACTED***"
	}
	if s.PostgresDSN != "" {
		s.PostgresDSN = "***REDACTED***"
	}
	return s
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
