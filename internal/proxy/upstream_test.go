// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUpstreamGetRelaysResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("x-api-key = %q, want secret", r.Header.Get("x-api-key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	u := NewUpstream("test", time.Second)
	resp, err := u.Get(context.Background(), srv.URL, map[string]string{"x-api-key": "secret"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if resp.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", resp.Status)
	}
	if resp.ContentType != "application/json" {
		t.Errorf("ContentType = %q", resp.ContentType)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %s", resp.Body)
	}
}

func TestUpstreamRelays4xxWithoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	u := NewUpstream("test", time.Second)
	resp, err := u.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", resp.Status)
	}
}

func TestUpstreamRelays5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	u := NewUpstream("test", time.Second)
	resp, err := u.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get returned error for relayable 5xx: %v", err)
	}
	if resp.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", resp.Status)
	}
}

func TestUpstreamBreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	u := NewUpstream("flaky", time.Second)

	// Drive the breaker past its trip threshold.
	for i := 0; i < 10; i++ {
		_, _ = u.Get(context.Background(), srv.URL, nil)
	}

	_, err := u.Get(context.Background(), srv.URL, nil)
	if err != ErrUpstreamUnavailable {
		t.Errorf("err = %v, want ErrUpstreamUnavailable once breaker is open", err)
	}
}

func TestUpstreamConnectionError(t *testing.T) {
	u := NewUpstream("down", 200*time.Millisecond)

	_, err := u.Get(context.Background(), "http://127.0.0.1:1", nil)
	if err == nil {
		t.Error("expected error for unreachable upstream")
	}
}
