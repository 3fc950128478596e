// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/proxy"
)

// driveFilesURL is the Drive v3 files resource.
var driveFilesURL = "https://www.googleapis.com/drive/v3/files"

// HandleVaultProxy relays a dashboard request to the vault media API,
// attaching the server-held API key. The browser never sees the key.
//
// GET /api/vault/*
func (h *Handlers) HandleVaultProxy(w http.ResponseWriter, r *http.Request) {
	if h.vault == nil {
		respondError(w, http.StatusNotImplemented, "vault upstream not configured")
		return
	}

	subpath := chi.URLParam(r, "*")
	target := strings.TrimRight(h.cfg.Vault.APIURL, "/") + "/" + subpath
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	headers := map[string]string{"x-api-key": h.cfg.Vault.APIKey}
	resp, err := h.vault.Get(r.Context(), target, headers)
	if err != nil {
		if err == proxy.ErrUpstreamUnavailable {
			respondError(w, http.StatusServiceUnavailable, "vault temporarily unavailable")
			return
		}
		respondError(w, http.StatusBadGateway, "vault request failed")
		return
	}

	relay(w, resp)
}

// HandleDriveFile streams a Drive file's media content on the caller's
// behalf, using the access token the browser obtained through the OAuth
// exchange.
//
// GET /api/drive/file?id=<fileID>
func (h *Handlers) HandleDriveFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("id")
	if fileID == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	target := driveFilesURL + "/" + url.PathEscape(fileID) + "?alt=media"

	resp, err := h.drive.Get(r.Context(), target, map[string]string{"Authorization": auth})
	if err != nil {
		if err == proxy.ErrUpstreamUnavailable {
			respondError(w, http.StatusServiceUnavailable, "drive temporarily unavailable")
			return
		}
		respondError(w, http.StatusBadGateway, "drive request failed")
		return
	}

	relay(w, resp)
}

// relay writes a buffered upstream response back to the browser.
func relay(w http.ResponseWriter, resp *proxy.Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}
