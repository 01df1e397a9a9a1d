// Ridewise - Driver Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ridewise

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/ridewise/internal/api"
	"github.com/tomtom215/ridewise/internal/config"
	"github.com/tomtom215/ridewise/internal/database"
	"github.com/tomtom215/ridewise/internal/logging"
	"github.com/tomtom215/ridewise/internal/supervisor"
	"github.com/tomtom215/ridewise/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Caller:      cfg.Logging.Caller,
		Timestamp:   true,
		Environment: cfg.Server.Environment,
		Output:      os.Stderr,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Ridewise")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows all origins (*) in production; set CORS_ORIGINS to your frontend origins")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true); do not run this in production")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logging.Info().Str("driver", cfg.Database.Driver).Msg("Connecting to ride database...")
	db, err := database.Open(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open ride database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ride database")
		}
	}()

	storeComponents, err := openModelStore(ctx, &cfg.ModelStore, logging.WithComponent("model_store"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open model store")
	}
	defer func() {
		if err := storeComponents.Store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing model store")
		}
	}()

	engine, err := initEngine(cfg, db, db, storeComponents.Store, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	eventComponents, err := initEvents(&cfg.Events, engine, logging.WithComponent("events"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := eventComponents.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	handler := api.NewHandler(engine, eventComponents.Publisher, api.HandlerConfig{
		DefaultTopN:    cfg.Recommend.DefaultTopN,
		RequestTimeout: cfg.Server.Timeout,
		TrainTimeout:   cfg.Recommend.TrainingTimeout,
		PublishTimeout: 5 * time.Second,
	}, logging.WithComponent("api"))
	router := api.NewRouter(handler, api.NewMiddleware(api.MiddlewareConfigFromSecurity(&cfg.Security)))

	// WriteTimeout leaves room for explicit training requests.
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Recommend.TrainingTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logging.Info().Msg("Initializing supervisor tree...")
	slogLogger := logging.NewSlogLogger(logging.Logger())
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if storeComponents.Badger != nil {
		gc := services.NewStoreGCService(storeComponents.Badger, services.StoreGCConfig{}, logging.Logger())
		if _, err := tree.Add(supervisor.LayerData, gc); err != nil {
			logging.Fatal().Err(err).Msg("Failed to add store GC service")
		}
		logging.Info().Msg("Badger value log GC added to supervisor tree")
	}

	if err := eventComponents.addToTree(tree); err != nil {
		logging.Fatal().Err(err).Msg("Failed to add event services")
	}
	if _, err := tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, handler)); err != nil {
		logging.Fatal().Err(err).Msg("Failed to add HTTP server service")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Ridewise stopped gracefully")
}
