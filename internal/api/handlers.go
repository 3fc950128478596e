// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/config"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/google"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/metrics"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/models"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/proxy"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/session"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/validation"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/ws"
)

// APIKeyHeader carries the shared secret for machine callers of the
// notification endpoint.
const APIKeyHeader = "x-api-key"

// Handlers bundles the HTTP handlers and their dependencies.
type Handlers struct {
	cfg      *config.Config
	registry *ws.Registry
	tokens   *session.TokenReader
	google   *google.Service
	vault    *proxy.Upstream
	drive    *proxy.Upstream
	upgrader websocket.Upgrader
}

// NewHandlers builds the handler set. google may be nil when OAuth is not
// configured; vault may be nil when the vault upstream is not configured.
func NewHandlers(cfg *config.Config, registry *ws.Registry, tokens *session.TokenReader,
	googleSvc *google.Service, vault, drive *proxy.Upstream) *Handlers {

	allowed := make(map[string]bool, len(cfg.AllowedOrigins()))
	for _, origin := range cfg.AllowedOrigins() {
		allowed[origin] = true
	}

	return &Handlers{
		cfg:      cfg,
		registry: registry,
		tokens:   tokens,
		google:   googleSvc,
		vault:    vault,
		drive:    drive,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Same-origin and non-browser clients send no Origin header.
				return origin == "" || allowed[origin]
			},
		},
	}
}

// HandleNotify accepts a notification from a machine caller and fans it out.
//
// POST /api/notification
//
// The shared API key is checked before the body is touched; an invalid key
// never triggers a broadcast. Broadcast itself is fire-and-forget: the 200
// response only promises that the notification was accepted, not delivered.
func (h *Handlers) HandleNotify(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(APIKeyHeader)
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.cfg.Security.NotifyAPIKey)) != 1 {
		metrics.IncNotificationsRejected("unauthorized")
		logging.Warn().Str("path", r.URL.Path).Msg("notification rejected: invalid api key")
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.NotifyRequest
	if err := decodeJSON(r, &req); err != nil {
		metrics.IncNotificationsRejected("bad_body")
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		metrics.IncNotificationsRejected("invalid")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	notification := models.NewNotification(req.Message, req.Data)
	h.registry.Broadcast(notification)

	respondJSON(w, http.StatusOK, models.NotifyResponse{
		Success:      true,
		Notification: notification,
	})
}

// HandleSocket bootstraps the notification channel and serves its websocket.
//
// GET /api/socket
//
// A plain GET creates the channel if needed and returns 200, which is how the
// dashboard primes the server before opening the websocket. An upgrade
// request joins the channel. Creation is idempotent either way.
func (h *Handlers) HandleSocket(w http.ResponseWriter, r *http.Request) {
	hub := h.registry.Create(ws.DefaultChannelConfig(h.cfg.AllowedOrigins()))

	if !websocket.IsWebSocketUpgrade(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(hub, conn)
	hub.Register <- client
	client.Start()
}

// HandleSession reports the verified session claims for the caller.
//
// GET /api/auth/session
//
// An absent or invalid token is a 401 here. Unlike the page routes, API
// callers get an explicit status instead of a redirect.
func (h *Handlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.tokens.FromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"email":   claims.Email,
			"name":    claims.Name,
			"isAdmin": claims.IsAdmin,
		},
	})
}

// HandleLive reports process liveness.
func (h *Handlers) HandleLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady reports readiness, including whether the notification channel
// has been created yet. A missing channel is informational, not a failure.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	_, channelUp := h.registry.Current()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"channel": channelUp,
	})
}
