package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/config"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/migrate"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence/file"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence/memory"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence/postgres"
	redisstore "github.com/MrSnakeDoc/jump-spaces/internal/persistence/redis"
	"github.com/MrSnakeDoc/jump-spaces/internal/redis"
	"github.com/MrSnakeDoc/jump-spaces/internal/retry"
	"github.com/MrSnakeDoc/jump-spaces/internal/utils"
)

// Storage is the opened snapshot backend plus the clients it holds.
type Storage struct {
	Kind      string
	Snapshots persistence.Store
	Users     auth.UserRepository // nil unless the backend keeps accounts
	Pinger    deps.Pinger         // nil when there is nothing to ping
	Redis     *goredis.Client     // set whenever JUMP_REDIS_ADDR is configured
	db        *postgres.DB
	log       logger.Logger
}

type redisPinger struct{ client *goredis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

// OpenStorage connects the backend selected by s. Pending Postgres
// migrations are applied once the pool answers.
func OpenStorage(ctx context.Context, s config.Storage, log logger.Logger) (*Storage, error) {
	st := &Storage{Kind: s.Store, log: log}

	if s.RedisAddr != "" {
		log.Infof("Connecting to Redis at %s", s.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           s.RedisAddr,
			User:           s.RedisUser,
			Password:       s.RedisPassword,
			RedisDB:        s.RedisDB,
			DialTimeout:    s.RedisDT,
			ReadTimeout:    s.RedisRT,
			WriteTimeout:   s.RedisWT,
			PoolSize:       s.RedisPoolSize,
			ConnectTimeout: s.RedisConnectTimeout,
			RetryInterval:  s.RedisRetryInterval,
			MaxWait:        s.RedisMaxWait,
			PingTimeout:    s.RedisPingTimeout,
			WarnThreshold:  s.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		st.Redis = client
		log.Info("Redis initialized successfully")
	}

	switch s.Store {
	case config.StoreMemory:
		st.Snapshots = memory.New(s.SnapshotTTL)
	case config.StoreFile:
		fs, err := file.New(s.DataDir, s.SnapshotTTL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to open data dir: %w", err)
		}
		st.Snapshots = fs
	case config.StoreRedis:
		st.Snapshots = redisstore.NewStore(st.Redis, s.SnapshotTTL)
		st.Pinger = redisPinger{client: st.Redis}
	case config.StorePostgres:
		db, err := postgres.New(ctx, s.PostgresDSN, retry.Policy{
			Timeout:        s.PostgresConnectTimeout,
			InitialWait:    s.PostgresRetryInterval,
			MaxWait:        s.PostgresMaxWait,
			AttemptTimeout: s.PostgresPingTimeout,
			WarnThreshold:  s.PostgresWarnThreshold,
		}, log)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		st.db = db
		if err := migrate.Up(ctx, s.PostgresDSN); err != nil {
			st.Close()
			return nil, err
		}
		st.Snapshots = postgres.NewSnapshotStore(db, s.SnapshotTTL)
		st.Users = postgres.NewUserRepo(db)
		st.Pinger = db
	default:
		st.Close()
		return nil, fmt.Errorf("unknown store %q", s.Store)
	}

	log.Info("snapshot store ready", logger.String("store", s.Store))
	return st, nil
}

// Close releases the backend clients.
func (s *Storage) Close() {
	if s.db != nil {
		s.db.Close()
		s.db = nil
		s.log.Info("✅ Postgres closed cleanly")
	}
	if s.Redis != nil {
		utils.MustClose(s.Redis, "redis", s.log)
		s.Redis = nil
	}
}
