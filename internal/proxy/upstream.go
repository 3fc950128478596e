// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package proxy forwards dashboard requests to third-party upstreams (the
// vault media API and Google Drive) behind a circuit breaker, so a flapping
// upstream cannot tie up every server connection.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/metrics"
)

// maxResponseBytes caps how much of an upstream body is buffered.
const maxResponseBytes = 16 << 20 // 16 MiB

// Response is a buffered upstream response ready to relay to the browser.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Upstream is one named third-party service reached through a breaker.
type Upstream struct {
	name    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*Response]
}

// NewUpstream builds a breaker-guarded HTTP client for one upstream.
func NewUpstream(name string, timeout time.Duration) *Upstream {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip after 5 requests with a majority failing.
			return counts.Requests >= 5 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("upstream", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("upstream circuit breaker state change")
		},
	}

	return &Upstream{
		name:    name,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*Response](settings),
	}
}

// ErrUpstreamUnavailable is returned when the breaker is open.
var ErrUpstreamUnavailable = fmt.Errorf("upstream unavailable")

// Get fetches a URL from the upstream through the breaker. Extra headers are
// applied to the outbound request. A response with any status is a breaker
// success unless the status is 5xx.
func (u *Upstream) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	resp, err := u.breaker.Execute(func() (*Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build upstream request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		httpResp, err := u.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("upstream request failed: %w", err)
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read upstream response: %w", err)
		}

		out := &Response{
			Status:      httpResp.StatusCode,
			ContentType: httpResp.Header.Get("Content-Type"),
			Body:        body,
		}
		if httpResp.StatusCode >= 500 {
			// Count server errors against the breaker but still relay them.
			return out, fmt.Errorf("upstream returned %d", httpResp.StatusCode)
		}
		return out, nil
	})

	switch {
	case err == nil:
		metrics.IncUpstreamRequest(u.name, "ok")
		return resp, nil
	case resp != nil:
		// 5xx relayed as-is.
		metrics.IncUpstreamRequest(u.name, "upstream_error")
		return resp, nil
	case err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests:
		metrics.IncUpstreamRequest(u.name, "breaker_open")
		logging.Warn().Str("upstream", u.name).Msg("request rejected: circuit breaker open")
		return nil, ErrUpstreamUnavailable
	default:
		metrics.IncUpstreamRequest(u.name, "error")
		return nil, err
	}
}
