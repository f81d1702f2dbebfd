// Package main provides the entry point for the solar dashboard gateway.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bsv-th/solar-dashboard/internal/config"
	"github.com/bsv-th/solar-dashboard/internal/guard"
	"github.com/bsv-th/solar-dashboard/internal/metrics"
	"github.com/bsv-th/solar-dashboard/internal/poller"
	"github.com/bsv-th/solar-dashboard/internal/session"
	"github.com/bsv-th/solar-dashboard/internal/solarapi"
	"github.com/bsv-th/solar-dashboard/internal/web"
)

const shutdownTimeout = 10 * time.Second

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
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := metrics.Init(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	client := solarapi.NewClient(cfg.SolarAPIURL)
	store := session.NewStore(cfg.CookieSecure)
	resolver := session.NewResolver(store)
	g := guard.New(resolver, logger)
	verifier := guard.NewVerifier(client, store, logger)

	p := poller.New(client, logger)
	handler := web.NewHandler(client, store, p, logger)
	router := web.NewRouter(handler, g, verifier, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pollerDone := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(pollerDone)
	}()

	metricsSrv := &http.Server{
		Addr:    cfg.MetricsListenAddr,
		Handler: metrics.Handler(),
	}
	go func() {
		logger.Info("metrics listener starting", "addr", cfg.MetricsListenAddr)
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}
	srvErr := make(chan error, 1)
	go func() {
		logger.Info("gateway starting", "addr", cfg.ListenAddr, "backend", cfg.SolarAPIURL)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	_ = metricsSrv.Close()

	// Poller loops stop via the signal context; wait for them so in-flight
	// polls terminate before the process exits.
	select {
	case <-pollerDone:
	case <-shutdownCtx.Done():
		logger.Warn("poller did not stop before deadline")
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("gateway exited", "error", err)
		os.Exit(1)
	}
}
