// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Command server runs the MovieGraph recommendation service: it loads the
// configuration, opens the graph store, imports the configured dataset, and
// serves the HTTP API until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/moviegraph/moviegraph/internal/api"
	"github.com/moviegraph/moviegraph/internal/config"
	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/graph/duckstore"
	"github.com/moviegraph/moviegraph/internal/graph/memstore"
	"github.com/moviegraph/moviegraph/internal/importer"
	"github.com/moviegraph/moviegraph/internal/logging"
	"github.com/moviegraph/moviegraph/internal/recommend"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(cfg.Logging)
	instanceID := uuid.New().String()
	logging.SetLogger(logging.With().Str("instance", instanceID).Logger())
	logging.Info().
		Str("version", version).
		Str("backend", cfg.Storage.Backend).
		Msg("moviegraph starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, target, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logging.Error().Err(cerr).Msg("store close failed")
		}
	}()

	if err := importer.Run(ctx, target, cfg.Dataset); err != nil {
		return fmt.Errorf("import dataset: %w", err)
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, store, logging.Logger())
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	handler := api.NewHandler(store, engine, version)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info().Msg("shutdown complete")
	return nil
}

// openStore builds the configured store stack. The circuit breaker wraps
// the serving path only; the importer writes through the raw store so a
// long initial load cannot trip the breaker.
func openStore(cfg *config.Config) (graph.Store, importer.Target, error) {
	switch cfg.Storage.Backend {
	case "memory":
		store := memstore.New()
		return store, store, nil
	case "duckdb":
		store, err := duckstore.New(cfg.Storage.DuckDB)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Storage.Breaker.Enabled {
			return graph.NewBreakerStore(store, cfg.Storage.Breaker), store, nil
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
