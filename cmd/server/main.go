// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/moodmirror/internal/api"
	"github.com/tomtom215/moodmirror/internal/config"
	"github.com/tomtom215/moodmirror/internal/ingest"
	"github.com/tomtom215/moodmirror/internal/logging"
	"github.com/tomtom215/moodmirror/internal/rankings"
	"github.com/tomtom215/moodmirror/internal/ratelimit"
	"github.com/tomtom215/moodmirror/internal/rotation"
	"github.com/tomtom215/moodmirror/internal/store"
	"github.com/tomtom215/moodmirror/internal/supervisor"
	"github.com/tomtom215/moodmirror/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("backend", cfg.Store.Backend).Msg("Starting MoodMirror")

	backend, checkpointer, err := initStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize reaction store")
	}
	reactions := store.NewResilient(backend, cfg.Breaker)
	defer func() {
		if err := reactions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing reaction store")
		}
	}()

	contentManifest := initManifest(cfg)

	limiter := ratelimit.NewFixedWindow(
		cfg.Ingest.RateLimitMax,
		cfg.Ingest.RateLimitWindow,
		ratelimit.WithMaxEntries(cfg.Ingest.RateLimitMaxSources),
	)
	var gatewayOpts []ingest.Option
	if contentManifest != nil && cfg.Ingest.RequireKnownContent {
		gatewayOpts = append(gatewayOpts, ingest.WithCatalog(contentManifest))
		logging.Info().Msg("Submissions restricted to manifest content")
	}
	gateway := ingest.NewGateway(reactions, limiter, gatewayOpts...)

	handler := api.NewHandler(api.HandlerDeps{
		Gateway:      gateway,
		Rankings:     rankings.NewService(reactions, contentManifest),
		Selector:     rotation.NewSelector(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Manifest:     contentManifest,
		Store:        reactions,
		MaxBodyBytes: cfg.Ingest.MaxBodyBytes,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 2*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if checkpointer != nil {
		tree.AddStoreService(services.NewCheckpointService(checkpointer, cfg.Database.CheckpointInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Serve returns once ctx is canceled or the root supervisor gives up.
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("MoodMirror stopped")
}
