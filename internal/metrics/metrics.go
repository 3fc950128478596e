// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package metrics exposes Prometheus instrumentation for the server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastycreative",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed, by method, path and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tastycreative",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	websocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tastycreative",
			Subsystem: "websocket",
			Name:      "connected_clients",
			Help:      "Number of currently connected websocket clients.",
		},
	)

	notificationsBroadcast = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tastycreative",
			Subsystem: "notifications",
			Name:      "broadcast_total",
			Help:      "Total notifications accepted for broadcast.",
		},
	)

	notificationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastycreative",
			Subsystem: "notifications",
			Name:      "rejected_total",
			Help:      "Notifications rejected before broadcast, by reason.",
		},
		[]string{"reason"},
	)

	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastycreative",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Requests forwarded to upstream services, by upstream and outcome.",
		},
		[]string{"upstream", "outcome"},
	)
)

// ObserveHTTPRequest records one completed HTTP request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetConnectedClients updates the websocket client gauge.
func SetConnectedClients(n int) {
	websocketClients.Set(float64(n))
}

// IncNotificationsBroadcast counts a notification accepted for fan-out.
func IncNotificationsBroadcast() {
	notificationsBroadcast.Inc()
}

// IncNotificationsRejected counts a notification rejected before broadcast.
func IncNotificationsRejected(reason string) {
	notificationsRejected.WithLabelValues(reason).Inc()
}

// IncUpstreamRequest counts a proxied upstream request.
func IncUpstreamRequest(upstream, outcome string) {
	upstreamRequests.WithLabelValues(upstream, outcome).Inc()
}
