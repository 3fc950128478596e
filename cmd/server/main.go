// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Command server runs the Tasty Creative backend: the notification gateway,
// the websocket channel, the route guard and the upstream proxies.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/api"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/config"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/google"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/proxy"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/session"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/supervisor"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/ws"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("starting tasty-creative server")

	tokens, err := session.NewTokenReader(&cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize token reader: %w", err)
	}

	registry := ws.NewRegistry()

	var googleSvc *google.Service
	if cfg.Google.Enabled() {
		googleSvc, err = google.NewService(cfg.Google)
		if err != nil {
			return fmt.Errorf("failed to initialize google oauth: %w", err)
		}
	} else {
		logging.Warn().Msg("google oauth not configured, oauth endpoints disabled")
	}

	var vault *proxy.Upstream
	if cfg.Vault.Enabled() {
		vault = proxy.NewUpstream("vault", cfg.Vault.Timeout)
	} else {
		logging.Warn().Msg("vault upstream not configured, vault proxy disabled")
	}
	drive := proxy.NewUpstream("drive", cfg.Server.Timeout)

	handlers := api.NewHandlers(cfg, registry, tokens, googleSvc, vault, drive)
	router := api.NewRouter(handlers, cfg, tokens)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: 0, // websocket connections are long-lived
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree := supervisor.New(registry, server)
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("server stopped")
	return nil
}
