// Package main is the entry point for the Kudosky notification service.
//
// It initializes the configuration, structured logging, the database
// pool, the email provider client, and the notification orchestrator,
// then serves the notification endpoints either as a standard HTTP
// server (RUN_MODE=http, the local/dev default) or behind AWS Lambda
// Proxy Integration (RUN_MODE=lambda), matching the serverless shape the
// endpoints were originally deployed in.
//
// Graceful shutdown is handled via OS signal interception (SIGINT,
// SIGTERM) in HTTP mode; the Lambda runtime owns the lifecycle in
// lambda mode.
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

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/jackc/pgx/v5/pgxpool"

	"kudosnotify/internal/api/handlers"
	"kudosnotify/internal/config"
	"kudosnotify/internal/core"
	"kudosnotify/internal/db"
	"kudosnotify/internal/external"
	"kudosnotify/internal/notify"
)

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit
// on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("kudosnotify starting",
		"environment", cfg.Environment,
		"run_mode", cfg.RunMode,
		"port", cfg.Server.Port,
	)
	if !cfg.Email.ResendAPIKey.IsSet() {
		logger.Warn("RESEND_API_KEY is not set; email dispatch will fail with a configuration error")
	}

	pool, err := newPool(cfg)
	if err != nil {
		return fmt.Errorf("initializing database pool: %w", err)
	}
	defer pool.Close()

	// Repositories.
	kudosRepo := db.NewKudosRepository(pool)
	rewardRepo := db.NewRewardRepository(pool)
	profileRepo := db.NewProfileRepository(pool)
	memberRepo := db.NewMemberRepository(pool)

	// Email provider client. The http.Client timeout bounds each
	// individual send attempt inside the retry loop.
	provider := external.NewResendClient(
		&http.Client{Timeout: cfg.Email.Timeout},
		external.ResendClientConfig{
			APIKey:  cfg.Email.ResendAPIKey,
			BaseURL: cfg.Email.BaseURL,
			RetryPolicy: external.RetryPolicy{
				MaxAttempts: cfg.Email.MaxAttempts,
				BaseWait:    cfg.Email.RetryBaseWait,
				MaxWait:     10 * time.Second,
			},
			Logger: logger,
		},
	)

	renderer, err := notify.NewRenderer()
	if err != nil {
		return fmt.Errorf("initializing email renderer: %w", err)
	}

	notifier := notify.NewService(
		kudosRepo,
		rewardRepo,
		profileRepo,
		memberRepo,
		provider,
		renderer,
		notify.ServiceConfig{
			FromAddress:        cfg.Email.FromAddress,
			AppBaseURL:         cfg.Server.AppBaseURL,
			UnsubscribeAddress: cfg.Email.UnsubscribeAddress,
		},
		logger,
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.HealthProbes = append(srv.HealthProbes, &dbProbe{pool: pool})

	notificationHandler := handlers.NewNotificationHandler(notifier, srv.Validator, logger)
	srv.RouteRegistrars = append(srv.RouteRegistrars, notificationHandler.RegisterRoutes)
	srv.MountRoutes()

	if cfg.RunMode == config.RunModeLambda {
		logger.Info("starting in lambda mode")
		adapter := httpadapter.New(srv.Handler())
		lambda.Start(adapter.ProxyWithContext)
		return nil
	}

	return serveHTTP(cfg, srv, logger)
}

// serveHTTP runs the standard HTTP server with graceful shutdown on
// SIGINT/SIGTERM.
func serveHTTP(cfg *config.Config, srv *core.Server, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return srv.Shutdown(ctx)
}

// newPool builds the pgx connection pool from configuration.
func newPool(cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL.Unmask())
	if err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime

	return pgxpool.NewWithConfig(context.Background(), poolCfg)
}

// newLogger builds the application-wide JSON logger at the configured
// level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// dbProbe reports database reachability for the health endpoint.
type dbProbe struct {
	pool *pgxpool.Pool
}

func (p *dbProbe) Name() string { return "database" }

func (p *dbProbe) Check(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
