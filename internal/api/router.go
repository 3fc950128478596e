// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/config"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/middleware"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/routeguard"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/session"
)

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(h *Handlers, cfg *config.Config, tokens *session.TokenReader) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !cfg.Security.RateLimitDisabled {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
	}

	// Page routes gated on the session token. The guard only evaluates the
	// dashboard root and the admin section; everything else passes through.
	r.Group(func(r chi.Router) {
		r.Use(routeguard.Middleware(tokens))
		r.Get("/", servePage("Tasty Creative"))
		r.Get("/admin", servePage("Tasty Creative Admin"))
		r.Get("/admin/*", servePage("Tasty Creative Admin"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/notification", h.HandleNotify)
		r.Get("/socket", h.HandleSocket)
		r.Get("/auth/session", h.HandleSession)

		r.Route("/google", func(r chi.Router) {
			r.Get("/auth", h.HandleGoogleAuth)
			r.Post("/exchange", h.HandleGoogleExchange)
			r.Post("/refresh", h.HandleGoogleRefresh)
		})

		r.Get("/vault/*", h.HandleVaultProxy)
		r.Get("/drive/file", h.HandleDriveFile)
	})

	r.Get("/health/live", h.HandleLive)
	r.Get("/health/ready", h.HandleReady)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// servePage returns a minimal shell page. The real dashboard is rendered by
// the frontend; these handlers exist so the gated page routes resolve when
// the API server is hit directly.
func servePage(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<!doctype html><title>" + title + "</title><h1>" + title + "</h1>"))
	}
}
