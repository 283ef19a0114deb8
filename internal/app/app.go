package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/config"
	"github.com/MrSnakeDoc/jump-spaces/internal/engine"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver"
	"github.com/MrSnakeDoc/jump-spaces/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jump-spaces/internal/ids"
	"github.com/MrSnakeDoc/jump-spaces/internal/index"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
	"github.com/MrSnakeDoc/jump-spaces/internal/scheduler"
	"github.com/MrSnakeDoc/jump-spaces/internal/version"
	"github.com/MrSnakeDoc/jump-spaces/internal/workspace"
)

const productName = "jump"

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	storage    *Storage
	shareIndex *index.MemoryIndex
	janitor    *scheduler.SnapshotJanitor
	shareSync  *scheduler.ShareSyncer // nil when the store cannot list users
}

// New loads the configuration, connects the selected store and wires the
// HTTP server. It fails fast when a backend is unreachable.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	storage, err := OpenStorage(ctx, cfg.Storage, loggerClient)
	if err != nil {
		return nil, err
	}

	users := storage.Users
	if users == nil {
		loggerClient.Warn("accounts are kept in memory and lost on restart",
			logger.String("store", cfg.Store))
		users = auth.NewMemoryUsers()
	}

	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if storage.Redis != nil {
		revoker = auth.NewRedisRevoker(storage.Redis)
	}

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	authService := auth.NewService(users, tokens, revoker)

	shareIndex := index.NewMemoryIndex()
	ws := workspace.New(workspace.Options{
		Store:         storage.Snapshots,
		Engine:        engine.New(ids.UUID{}, nil),
		Shares:        shareIndex,
		Logger:        loggerClient,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	purger, _ := storage.Snapshots.(persistence.Purger)
	janitor := scheduler.NewSnapshotJanitor(purger, ws, loggerClient, cfg.JanitorInterval, cfg.IdleTimeout)

	var shareSync *scheduler.ShareSyncer
	if source, ok := storage.Snapshots.(scheduler.SnapshotSource); ok {
		shareSync = scheduler.NewShareSyncer(source, shareIndex, workspace.PublicCollectionIDs,
			loggerClient, cfg.ShareSyncInterval)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Build:            version.Get(),
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		AllowedOrigins:   cfg.AllowedOrigins,
		TrustProxy:       cfg.TrustProxy,
		Auth:             authService,
		Workspace:        ws,
		ShareIndex:       shareIndex,
		StoreKind:        storage.Kind,
		Storage:          storage.Pinger,
		RedisClient:      storage.Redis,
		AuthBurst:        cfg.AuthBurst,
		AuthRefillPerMin: cfg.AuthRefillPerMin,
		MaxBodyBytes:     cfg.MaxBodyBytes,
		ProductName:      productName,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     server,
		storage:    storage,
		shareIndex: shareIndex,
		janitor:    janitor,
		shareSync:  shareSync,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting Jump v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Jump %s", version.Get())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.storage.Close()

	// Rebuild the share index before serving public links
	if a.shareSync != nil {
		if err := a.shareSync.Start(ctx); err != nil {
			return fmt.Errorf("failed to start share syncer: %w", err)
		}
		a.logger.Info("share syncer started",
			logger.Duration("interval", a.cfg.ShareSyncInterval))
	}

	a.janitor.Start(ctx)
	a.logger.Info("snapshot janitor started",
		logger.Duration("interval", a.cfg.JanitorInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.stopJobs()
		return err
	}

	a.stopJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ Jump stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

func (a *App) stopJobs() {
	a.janitor.Stop()
	if a.shareSync != nil {
		a.shareSync.Stop()
	}
}
