package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/notify"
	"storefront/internal/pages"
	"storefront/internal/services"
	"storefront/internal/session"
	"storefront/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile, logLevel, port string
	flags := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	flags.StringVar(&envFile, "env-file", ".env", "optional dotenv file to load before reading the environment")
	flags.StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	flags.StringVarP(&port, "port", "p", "", "override HTTP_PORT")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg := config.Load(envFile)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if port != "" {
		cfg.HTTPPort = port
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)
	slog.Info("Starting storefront", "port", cfg.HTTPPort, "api_url", cfg.APIURL)
	if cfg.SessionSecret == "dev-session-secret" || cfg.FlashSecret == "dev-flash-secret" {
		slog.Warn("using development cookie secrets; set SESSION_SECRET and FLASH_SECRET in production")
	}

	var (
		store   services.Cache
		limiter pages.RateLimiter
		checks  = map[string]pages.Check{}
	)
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewClient(cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
		store, limiter = redisClient, redisClient
		checks["redis"] = redisClient.Ping
	} else {
		slog.Info("REDIS_ADDR not set, running without cache and login throttling")
	}

	svc := services.NewServiceClient(cfg, store)
	sessions := session.NewStore(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	notes := notify.New(cfg.FlashSecret, cfg.CookieSecure)

	handler, err := pages.NewHandler(svc, auth.NewGateway(svc, sessions), notes, pages.Options{
		PageSize:       cfg.PageSize,
		LoginRateLimit: cfg.LoginRateLimit,
		Limiter:        limiter,
	})
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(telemetry.Middleware())
	e.Use(middleware.Secure())
	e.Use(middleware.ContextTimeout(time.Duration(cfg.RetryAttempts+1) * cfg.RequestTimeout))
	e.Use(sessions.Load)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	handler.RegisterHealth(e, checks)
	handler.Register(e)

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	go func() {
		slog.Info("Server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
