// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package config defines the application configuration and its loading rules.
//
// Configuration is layered (highest priority wins):
//  1. Environment variables
//  2. Optional YAML config file
//  3. Built-in defaults
package config

import (
	"fmt"
	"time"
)

// Environment values recognized by the server. The environment selects the
// CORS origin allow-list when no explicit override is configured.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config is the root configuration for the Tasty Creative server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Google   GoogleConfig   `koanf:"google"`
	Vault    VaultConfig    `koanf:"vault"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// SecurityConfig holds authentication and access-control settings.
type SecurityConfig struct {
	// SessionSecret verifies session tokens (NEXTAUTH_SECRET).
	SessionSecret string `koanf:"session_secret"`

	// NotifyAPIKey is the shared secret expected in the x-api-key header
	// of the notification broadcast endpoint (NOTIFY_API_KEY).
	NotifyAPIKey string `koanf:"notify_api_key"`

	// CORSOrigins overrides the environment-derived origin allow-list when set.
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// GoogleConfig holds Google OAuth client settings.
type GoogleConfig struct {
	ClientID     string   `koanf:"client_id"`
	ClientSecret string   `koanf:"client_secret"`
	RedirectURI  string   `koanf:"redirect_uri"`
	Scopes       []string `koanf:"scopes"`
}

// Enabled reports whether the Google OAuth endpoints should be wired.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// VaultConfig holds settings for the third-party vault proxy upstream.
type VaultConfig struct {
	APIURL  string        `koanf:"api_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// Enabled reports whether the vault proxy endpoints should be wired.
func (v VaultConfig) Enabled() bool {
	return v.APIURL != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// productionOrigins is the CORS allow-list served in production.
var productionOrigins = []string{
	"https://tasty-creative.vercel.app",
	"https://www.tastycreative.xyz",
}

// developmentOrigins is the CORS allow-list for local development.
var developmentOrigins = []string{"http://localhost:3000"}

// AllowedOrigins returns the CORS origin allow-list: the explicit override
// when configured, otherwise the list selected by the environment.
func (c *Config) AllowedOrigins() []string {
	if len(c.Security.CORSOrigins) > 0 {
		return c.Security.CORSOrigins
	}
	if c.Server.Environment == EnvProduction {
		return productionOrigins
	}
	return developmentOrigins
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// Validate checks the configuration for missing or unsafe values.
func (c *Config) Validate() error {
	if c.Security.SessionSecret == "" {
		return fmt.Errorf("NEXTAUTH_SECRET is required but was empty")
	}
	if c.Security.NotifyAPIKey == "" {
		return fmt.Errorf("NOTIFY_API_KEY is required but was empty")
	}
	if c.IsProduction() && len(c.Security.SessionSecret) < 32 {
		return fmt.Errorf("NEXTAUTH_SECRET must be at least 32 characters in production")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("invalid environment %q (want %q or %q)",
			c.Server.Environment, EnvProduction, EnvDevelopment)
	}
	return nil
}
