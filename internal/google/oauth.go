// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package google wraps the Google OAuth token exchange used by the dashboard
// to obtain Drive credentials. The server never stores tokens; it exchanges
// and refreshes them on the browser's behalf and hands the result back.
package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/config"
)

// Service performs the OAuth authorization-code and refresh flows.
type Service struct {
	oauth *oauth2.Config
}

// NewService builds the OAuth service from the Google configuration.
func NewService(cfg config.GoogleConfig) (*Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("google oauth is not configured")
	}
	return &Service{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint:     googleoauth.Endpoint,
		},
	}, nil
}

// AuthURL returns the consent-screen URL for the given anti-forgery state.
// Offline access is requested so the exchange yields a refresh token.
func (s *Service) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades an authorization code for a token set.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// Refresh obtains a fresh access token from a refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	source := s.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return token, nil
}
