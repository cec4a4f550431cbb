package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"unaliaser/internal/api"
	"unaliaser/internal/config"
	"unaliaser/pkg/logger"
	"unaliaser/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config) func(ctx context.Context) {
	mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}

	svc, err := newCanonicalizer(cfg, mp.Meter(metrics.MeterName))
	if err != nil {
		logger.Fatal(ctx, "could not create canonicalizer", zap.Error(err))
	}

	server, err := api.NewServer(ctx, api.Deps{
		Canonicalizer: svc,
		Gatherer:      prometheus.DefaultGatherer,
	}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...",
			zap.String("addr", cfg.HTTP.Addr), zap.String("dns_resolver", cfg.DNS.Resolver))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stopWebserver := setupServer(ctx, cfg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
		},
	}

	return cmd
}
