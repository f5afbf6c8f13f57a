package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/minedex/minedex/internal/config"
	"github.com/minedex/minedex/internal/httpserver"
	"github.com/minedex/minedex/internal/httpserver/deps"
	"github.com/minedex/minedex/internal/logger"
	"github.com/minedex/minedex/internal/mailer"
	"github.com/minedex/minedex/internal/probe"
	redisconn "github.com/minedex/minedex/internal/redis"
	"github.com/minedex/minedex/internal/registry"
	"github.com/minedex/minedex/internal/scheduler"
	redisstore "github.com/minedex/minedex/internal/store/redis"
	"github.com/minedex/minedex/internal/verify"
	"github.com/minedex/minedex/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	mailer      *mailer.Mailer
	redisClient *goredis.Client
	refresher   *scheduler.StatusRefresher
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Registry document on disk.
	store := registry.New(cfg.DataFile, loggerClient)
	if err := store.Init(); err != nil {
		loggerClient.Errorf("Failed to initialize registry: %v", err)
		os.Exit(1)
	}

	// Verification code delivery.
	mailClient, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		To:       cfg.AdminEmail,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to build mailer: %v", err)
		os.Exit(1)
	}

	verifier := verify.NewManager(mailClient, cfg.CodeTTL, cfg.CodeMaxAttempts)
	prober := probe.New(cfg.StatusAPIURL, cfg.StatusAPIPassword, cfg.StatusTimeout, loggerClient)
	if cfg.StatusAPIURL == "" {
		loggerClient.Warn("status api not configured, all probes will report degraded status")
	}

	// Optional redis layer: status cache plus background refresher.
	var redisClient *goredis.Client
	var statusCache *redisstore.Store
	var refresher *scheduler.StatusRefresher
	var refreshTrigger chan struct{}
	if cfg.RedisAddr != "" {
		redisClient, err = redisconn.New(redisconn.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			ReadTimeout:    cfg.RedisReadTimeout,
			WriteTimeout:   cfg.RedisWriteTimeout,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		statusCache = redisstore.NewStore(redisClient)
		refreshTrigger = make(chan struct{}, 1)
		refresher = scheduler.NewStatusRefresher(
			store,
			prober,
			statusCache,
			loggerClient,
			cfg.StatusRefreshInterval,
			cfg.StatusCacheTTL,
			refreshTrigger,
		)
	} else {
		loggerClient.Info("redis not configured, status caching and background refresh disabled")
	}

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		TimeNow:        time.Now,
		Registry:       store,
		Verifier:       verifier,
		Prober:         prober,
		StatusCache:    statusCache,
		StatusCacheTTL: cfg.StatusCacheTTL,
		RefreshTrigger: refreshTrigger,
		TrustProxy:     cfg.TrustProxy,
		AllowedOrigins: cfg.AllowedOrigins,
		SendCodeBurst:  cfg.SendCodeBurst,
		SendCodePerMin: cfg.SendCodePerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		mailer:      mailClient,
		redisClient: redisClient,
		refresher:   refresher,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting minedex %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("minedex %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Advisory mail check: a broken mailbox must not keep the directory down.
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := a.mailer.CheckConnection(checkCtx); err != nil {
		a.logger.Warnf("smtp connection check failed, code delivery may not work: %v", err)
	} else {
		a.logger.Info("smtp connection verified")
	}
	cancel()

	if a.refresher != nil {
		a.refresher.Start(ctx)
		a.logger.Info("status refresher started",
			logger.Duration("interval", a.cfg.StatusRefreshInterval))
	}

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
		return err
	}

	if a.refresher != nil {
		a.refresher.Stop()
	}

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

	a.logger.Info("✅ minedex stopped cleanly")
	return nil
}
