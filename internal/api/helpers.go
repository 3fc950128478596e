// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package api wires the HTTP surface: the notification broadcast endpoint,
// the websocket bootstrap, session introspection, the Google OAuth glue and
// the upstream proxies.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/models"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes the standard JSON error envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
