// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
)

// exchangeRequest is the body of the authorization-code exchange.
type exchangeRequest struct {
	Code string `json:"code" validate:"required"`
}

// refreshRequest is the body of the token refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// stateCookieName carries the anti-forgery state across the consent redirect.
const stateCookieName = "google-oauth-state"

// HandleGoogleAuth redirects the browser to the Google consent screen.
//
// GET /api/google/auth
//
// The anti-forgery state rides in a short-lived cookie so the callback can
// check it against the state Google echoes back.
func (h *Handlers) HandleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		respondError(w, http.StatusNotImplemented, "google oauth not configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthURL(state), http.StatusFound)
}

// HandleGoogleExchange trades an authorization code for tokens.
//
// POST /api/google/exchange
func (h *Handlers) HandleGoogleExchange(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		respondError(w, http.StatusNotImplemented, "google oauth not configured")
		return
	}

	var req exchangeRequest
	if err := decodeJSON(r, &req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	token, err := h.google.Exchange(r.Context(), req.Code)
	if err != nil {
		logging.Warn().Err(err).Msg("google code exchange failed")
		respondError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  token.AccessToken,
		"refresh_token": token.RefreshToken,
		"token_type":    token.TokenType,
		"expiry":        token.Expiry,
	})
}

// HandleGoogleRefresh obtains a fresh access token.
//
// POST /api/google/refresh
func (h *Handlers) HandleGoogleRefresh(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		respondError(w, http.StatusNotImplemented, "google oauth not configured")
		return
	}

	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	token, err := h.google.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		logging.Warn().Err(err).Msg("google token refresh failed")
		respondError(w, http.StatusBadGateway, "token refresh failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expiry":       token.Expiry,
	})
}
