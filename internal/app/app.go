package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navdeck/internal/catalog"
	"github.com/MrSnakeDoc/navdeck/internal/config"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
	"github.com/MrSnakeDoc/navdeck/internal/redis"
	"github.com/MrSnakeDoc/navdeck/internal/scheduler"
	"github.com/MrSnakeDoc/navdeck/internal/sources/notion"
	redisstore "github.com/MrSnakeDoc/navdeck/internal/store/redis"
	"github.com/MrSnakeDoc/navdeck/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	schemas     *scheduler.SchemaReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// An invalid configuration is reported but not fatal: /env-check and
	// /readyz must stay reachable to diagnose it.
	v := cfg.Validate()
	for _, e := range v.Errors {
		loggerClient.Error("invalid configuration", logger.String("reason", e))
	}
	for _, w := range v.Warnings {
		loggerClient.Warn("configuration warning", logger.String("reason", w))
	}

	// Redis only holds statistics; the service runs without it.
	var (
		redisClient *goredis.Client
		stats       *redisstore.Store
	)
	if cfg.StatsEnabled() {
		client, err := redis.New(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, fetch statistics disabled", logger.Error(err))
		} else {
			redisClient = client
			stats = redisstore.NewStore(client)
			loggerClient.Info("Redis initialized successfully")
		}
	}

	reloadTrigger := make(chan struct{}, 1)
	schemas := scheduler.NewSchemaReloader(
		cfg.SchemaFile,
		loggerClient.With(logger.String("component", "schema")),
		cfg.SchemaReloadInterval,
		reloadTrigger,
	)

	client := notion.NewClient(notion.ClientOptions{
		BaseURL: cfg.NotionAPIBaseURL,
		Token:   cfg.NotionToken,
		Version: cfg.NotionVersion,
		Timeout: cfg.RequestTimeout,
	}, loggerClient)
	fetcher := notion.NewFetcher(client, notion.RetryPolicy{
		MaxRetries: cfg.FetchRetries,
		Interval:   cfg.FetchRetryInterval,
		MaxWait:    cfg.FetchMaxWait,
	}, loggerClient.With(logger.String("component", "fetcher")))

	// A nil *Store must not become a non-nil interface.
	var recorder catalog.StatsRecorder
	var statsStore deps.StatsStore
	if stats != nil {
		recorder = stats
		statsStore = stats
	}

	svc := catalog.New(fetcher, schemas, recorder, catalog.Options{
		LinkSourceID:   cfg.LinkSourceID(),
		ConfigSourceID: cfg.NotionConfigDatabaseID,
		Timeout:        cfg.FetchTimeout,
	}, loggerClient.With(logger.String("component", "catalog")))

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Config:        cfg,
		Catalog:       svc,
		Schemas:       schemas,
		Stats:         statsStore,
		RedisClient:   redisClient,
		ReloadTrigger: reloadTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		schemas:     schemas,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting navdeck v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("navdeck %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.schemas.Start(ctx); err != nil {
		return fmt.Errorf("failed to start schema reloader: %w", err)
	}
	a.logger.Info("schema reloader started",
		logger.String("file", a.cfg.SchemaFile),
		logger.Duration("interval", a.cfg.SchemaReloadInterval))

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
		a.schemas.Stop()
		return err
	}

	a.schemas.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ navdeck stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
