package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/findmylink/companion/internal/api"
	"github.com/findmylink/companion/internal/auth"
	"github.com/findmylink/companion/internal/bridge"
	"github.com/findmylink/companion/internal/config"
	"github.com/findmylink/companion/internal/credstore"
	"github.com/findmylink/companion/internal/httpserver"
	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/i18n"
	"github.com/findmylink/companion/internal/logger"
	"github.com/findmylink/companion/internal/redis"
	"github.com/findmylink/companion/internal/version"
	"github.com/findmylink/companion/internal/view"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Credential store first: the HTTP surface is useless without it.
	redisClient, err := redis.New(redis.ConnectOptions{
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
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	credentials := credstore.NewRedisStore(redisClient)

	// Browser bridge: stdio when Chrome launches us as a native-messaging
	// host, TCP when a dev extension exposes the bridge on a port.
	var browserClient *bridge.Client
	if cfg.BridgeAddr != "" {
		browserClient, err = bridge.DialTCP(cfg.BridgeAddr, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect browser bridge: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("browser bridge connected over tcp",
			logger.String("addr", cfg.BridgeAddr))
	} else {
		browserClient = bridge.Stdio(loggerClient)
		loggerClient.Info("browser bridge connected over stdio")
	}

	backend := api.New(cfg.BackendBaseURL, loggerClient)

	bundle, err := i18n.Load(cfg.LocaleDir, cfg.DefaultLang, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to load locales: %v", err)
		os.Exit(1)
	}

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		Browser:      browserClient,
		Credentials:  credentials,
		Backend:      backend,
		Translations: bundle,
		Auth:         auth.NewFlow(credentials, browserClient, cfg.BackendBaseURL, cfg.BackendOrigin, loggerClient),
		Selector:     view.NewSelector(credentials, backend, loggerClient),
		DefaultLang:  cfg.DefaultLang,
		BotStartURL:  cfg.BotStartURL,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting FindMyLink companion v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("companion %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}

	a.logger.Info("✅ Shutdown complete")
	return nil
}
