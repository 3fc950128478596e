// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package ws

import (
	"context"
	"sync"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/models"
)

// ChannelConfig describes the single notification channel a process hosts.
type ChannelConfig struct {
	// Path is the HTTP path the channel endpoint is bound to.
	Path string

	// AllowedOrigins, AllowedMethods and Credentials mirror the CORS policy
	// applied to the channel's bootstrap endpoint.
	AllowedOrigins []string
	AllowedMethods []string
	Credentials    bool
}

// DefaultChannelConfig returns the channel configuration used when a caller
// creates the channel without overrides.
func DefaultChannelConfig(origins []string) ChannelConfig {
	return ChannelConfig{
		Path:           "/api/socket",
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST"},
		Credentials:    true,
	}
}

// Registry holds the process-wide notification channel. At most one hub
// exists per process; creation is idempotent and first-writer-wins, so
// concurrent bootstrap requests all converge on the same hub.
//
// The registry is an injected dependency rather than package-level state:
// handlers receive the registry and tests construct isolated instances.
type Registry struct {
	mu      sync.Mutex
	hub     *Hub
	cfg     ChannelConfig
	created chan struct{}
}

// NewRegistry creates an empty registry with no channel.
func NewRegistry() *Registry {
	return &Registry{created: make(chan struct{})}
}

// Current returns the existing hub, if any. It never creates one.
func (r *Registry) Current() (*Hub, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hub, r.hub != nil
}

// Config returns the channel configuration recorded at creation time.
func (r *Registry) Config() (ChannelConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg, r.hub != nil
}

// Create returns the process-wide hub, creating it on first call. Later calls
// return the existing hub unchanged and their configuration is ignored; the
// first writer's configuration sticks for the life of the process.
func (r *Registry) Create(cfg ChannelConfig) *Hub {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hub != nil {
		return r.hub
	}

	r.hub = NewHub()
	r.cfg = cfg
	close(r.created)

	logging.Info().
		Str("path", cfg.Path).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("notification channel created")
	return r.hub
}

// Broadcast fans a notification out through the channel. When no channel has
// been created yet the notification is logged and dropped; the caller never
// sees an error. Delivery is best-effort by design.
func (r *Registry) Broadcast(n *models.Notification) {
	hub, ok := r.Current()
	if !ok {
		logging.Warn().
			Str("message", n.Message).
			Msg("notification dropped: channel not initialized")
		return
	}
	hub.BroadcastNotification(n)
}

// Serve runs the hub loop under supervision. It blocks until the channel is
// created, then runs the hub until the context is canceled. Implementing
// suture.Service here lets the supervisor own the hub goroutine while the
// HTTP layer keeps lazy creation semantics.
func (r *Registry) Serve(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.created:
	}

	hub, _ := r.Current()
	return hub.RunWithContext(ctx)
}

// String identifies the registry in supervisor logs.
func (r *Registry) String() string {
	return "notification-channel"
}
