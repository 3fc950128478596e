// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package supervisor builds the suture supervision tree that owns the
// long-running parts of the server: the notification channel hub and the
// HTTP listener. A crash in either is restarted with backoff instead of
// taking the process down.
package supervisor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/ws"
)

// shutdownTimeout bounds graceful HTTP drain on shutdown.
const shutdownTimeout = 10 * time.Second

// New builds the supervision tree. Serve it with ServeBackground and cancel
// the context to stop everything.
func New(registry *ws.Registry, server *http.Server) *suture.Supervisor {
	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger()}).MustHook()

	root := suture.New("tasty-creative", suture.Spec{
		EventHook:        hook,
		FailureDecay:     30,
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
	})

	root.Add(registry)
	root.Add(&httpService{server: server})

	return root
}

// httpService adapts an http.Server to suture.Service with graceful drain.
type httpService struct {
	server *http.Server
}

func (s *httpService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	logging.Info().Str("addr", s.server.Addr).Msg("http server listening")

	select {
	case <-ctx.Done():
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(drainCtx); err != nil {
			logging.Warn().Err(err).Msg("http server shutdown incomplete")
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	}
}

func (s *httpService) String() string {
	return "http-server"
}
