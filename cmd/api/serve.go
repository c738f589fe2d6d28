package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/grievance-service/internal/api/http"
	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, logger := loadConfigAndLogger()
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer rt.close(context.Background())

	worker.StartNotificationWorker(rt.notifier, logger)
	go worker.NewEligibilityWorker(rt.eligibility, cfg.Escalation.SweepInterval(), logger).Run(ctx)

	app := httptransport.NewApp(cfg.App.Name, logger, rt.metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	}, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, rt.postgres, rt.redis),
		Auth:           handlers.NewAuthHandler(rt.auth),
		Profile:        handlers.NewProfileHandler(rt.auth),
		Grievances:     handlers.NewGrievancesHandler(rt.lifecycle, rt.escalation, rt.stats),
		Admin:          handlers.NewAdminHandler(rt.escalation, rt.stats),
		AuthMiddleware: auth.NewAuthMiddleware(rt.auth.TokenManager()),
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}
	cancel()

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	return nil
}
