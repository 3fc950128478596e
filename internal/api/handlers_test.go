// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/config"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/models"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/proxy"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/session"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/ws"
)

const (
	testAPIKey = "test-api-key"
	testSecret = "test-secret-0123456789abcdef0123456789"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        3001,
			Timeout:     5 * time.Second,
			Environment: config.EnvDevelopment,
		},
		Security: config.SecurityConfig{
			SessionSecret:     testSecret,
			NotifyAPIKey:      testAPIKey,
			RateLimitDisabled: true,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
}

// testServer starts the full router on an httptest server with a live
// notification channel supervisor.
func testServer(t *testing.T) (*httptest.Server, *ws.Registry) {
	t.Helper()

	cfg := testConfig()
	tokens, err := session.NewTokenReader(&cfg.Security)
	if err != nil {
		t.Fatalf("NewTokenReader failed: %v", err)
	}

	registry := ws.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = registry.Serve(ctx) }()
	t.Cleanup(cancel)

	drive := proxy.NewUpstream("drive", time.Second)
	handlers := NewHandlers(cfg, registry, tokens, nil, nil, drive)
	srv := httptest.NewServer(NewRouter(handlers, cfg, tokens))
	t.Cleanup(srv.Close)
	return srv, registry
}

func postNotification(t *testing.T, srv *httptest.Server, apiKey string, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/notification", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set(APIKeyHeader, apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// dialSocket opens a websocket connection and waits until the hub has
// registered it, so a broadcast fired right after cannot race the join.
func dialSocket(t *testing.T, srv *httptest.Server, registry *ws.Registry) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/socket"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub, ok := registry.Current(); ok && hub.ClientCount() > 0 {
			return conn
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("websocket client never registered with the hub")
	return nil
}

func TestNotifyRejectsMissingKey(t *testing.T) {
	srv, registry := testServer(t)

	resp := postNotification(t, srv, "", `{"message":"hi"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if errResp.Error != "Unauthorized" {
		t.Errorf("error = %q, want Unauthorized", errResp.Error)
	}

	// No channel was created as a side effect of the rejected request.
	if _, ok := registry.Current(); ok {
		t.Error("rejected notification created a channel")
	}
}

func TestNotifyRejectsWrongKey(t *testing.T) {
	srv, _ := testServer(t)

	resp := postNotification(t, srv, "wrong-key", `{"message":"hi"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestNotifyRejectsMissingMessage(t *testing.T) {
	srv, _ := testServer(t)

	resp := postNotification(t, srv, testAPIKey, `{"data":{"priority":"high"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if errResp.Error == "" {
		t.Error("error message empty")
	}
}

func TestNotifyRejectsMalformedBody(t *testing.T) {
	srv, _ := testServer(t)

	resp := postNotification(t, srv, testAPIKey, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNotifySucceedsWithoutChannel(t *testing.T) {
	srv, registry := testServer(t)

	resp := postNotification(t, srv, testAPIKey, `{"message":"hi"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with no channel", resp.StatusCode)
	}

	var body models.NotifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if body.Notification == nil || body.Notification.Message != "hi" {
		t.Errorf("notification = %+v, want message hi", body.Notification)
	}

	if _, ok := registry.Current(); ok {
		t.Error("notify created a channel")
	}
}

func TestSocketBootstrapCreatesChannel(t *testing.T) {
	srv, registry := testServer(t)

	resp, err := http.Get(srv.URL + "/api/socket")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
	if _, ok := registry.Current(); !ok {
		t.Error("bootstrap did not create the channel")
	}

	// A second bootstrap reuses the channel.
	hub, _ := registry.Current()
	resp2, err := http.Get(srv.URL + "/api/socket")
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	resp2.Body.Close()
	hub2, _ := registry.Current()
	if hub != hub2 {
		t.Error("second bootstrap replaced the channel")
	}
}

func TestNotificationDeliveredToWebsocketClient(t *testing.T) {
	srv, registry := testServer(t)

	conn := dialSocket(t, srv, registry)

	resp := postNotification(t, srv, testAPIKey, `{"message":"hi","data":{"priority":"high"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if err := conn.SetReadDeadline(time.Now().Add(3 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline failed: %v", err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var msg struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.Type != "notification" {
		t.Errorf("type = %q, want notification", msg.Type)
	}
	if msg.Data["message"] != "hi" {
		t.Errorf("message = %v, want hi", msg.Data["message"])
	}
	if msg.Data["priority"] != "high" {
		t.Errorf("priority = %v, want high (attributes flattened)", msg.Data["priority"])
	}
	if _, ok := msg.Data["timestamp"].(string); !ok {
		t.Errorf("timestamp missing: %v", msg.Data)
	}
}

func TestRejectedNotificationIsNotBroadcast(t *testing.T) {
	srv, registry := testServer(t)

	conn := dialSocket(t, srv, registry)

	resp := postNotification(t, srv, "wrong-key", `{"message":"secret"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	if err := conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)); err != nil {
		t.Fatalf("SetReadDeadline failed: %v", err)
	}
	if _, raw, err := conn.ReadMessage(); err == nil {
		t.Errorf("rejected notification leaked to client: %s", raw)
	}
}

func TestSessionEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	cfg := testConfig()
	tokens, err := session.NewTokenReader(&cfg.Security)
	if err != nil {
		t.Fatalf("NewTokenReader failed: %v", err)
	}
	token, err := tokens.GenerateToken("user@example.com", true, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	t.Run("without token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/auth/session")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", resp.StatusCode)
		}
		var errResp models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if errResp.Error != "Unauthorized" {
			t.Errorf("error = %q, want Unauthorized", errResp.Error)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/session", nil)
		if err != nil {
			t.Fatalf("NewRequest failed: %v", err)
		}
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("with token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/session", nil)
		if err != nil {
			t.Fatalf("NewRequest failed: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			User struct {
				IsAdmin bool `json:"isAdmin"`
			} `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if !body.User.IsAdmin {
			t.Error("isAdmin = false, want true")
		}
	})
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := testServer(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("%s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestPageRoutesGuarded(t *testing.T) {
	srv, _ := testServer(t)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/health/live")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}
