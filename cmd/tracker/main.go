package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"release-tracker/internal/catalog"
	"release-tracker/internal/config"
	"release-tracker/internal/database"
	"release-tracker/internal/drift"
	"release-tracker/internal/handlers"
	"release-tracker/internal/logger"
	"release-tracker/internal/metrics"
	"release-tracker/internal/newrelic"
	"release-tracker/internal/ratelimit"
	"release-tracker/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logger.Initialize()
	log.Info("Starting release tracker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load catalog")
	}
	log.WithFields(logrus.Fields{
		"applications": len(cat.Applications()),
		"accounts":     len(cat.Accounts()),
		"regions":      len(cat.Regions()),
	}).Info("Catalog loaded")

	// Initialize New Relic monitoring
	nrApp, err := newrelic.Initialize(cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize New Relic, continuing without monitoring")
	}

	repo, err := database.Open(ctx, database.Options{
		Driver:      cfg.DBDriver,
		SQLitePath:  cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer repo.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		log.WithError(err).Fatal("Failed to register metrics")
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimitEnabled() {
		rl, err := ratelimit.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, release writes will not be rate limited")
		} else {
			defer rl.Close()
			limiter = rl
		}
	}

	coordinator := drift.NewCoordinator(repo, cat,
		drift.WithTimeout(cfg.DriftTimeout),
		drift.WithConcurrency(cfg.DriftConcurrency),
		drift.WithObserver(m),
	)

	srv := server.NewServer(cfg, handlers.NewHandler(repo, coordinator), server.Options{
		Metrics:  m,
		Gatherer: registry,
		Limiter:  limiter,
		NewRelic: nrApp,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
		if nrApp != nil {
			nrApp.Shutdown(5 * time.Second)
		}
	}
}
