// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tasty-creative/config.yaml",
	"/etc/tasty-creative/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3001,
			Timeout:     30 * time.Second,
			Environment: EnvDevelopment,
		},
		Security: SecurityConfig{
			SessionSecret:     "",
			NotifyAPIKey:      "",
			CORSOrigins:       nil, // derived from environment unless overridden
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Google: GoogleConfig{
			ClientID:     "",
			ClientSecret: "",
			RedirectURI:  "",
			Scopes: []string{
				"https://www.googleapis.com/auth/drive.readonly",
				"openid",
				"email",
				"profile",
			},
		},
		Vault: VaultConfig{
			APIURL:  "",
			APIKey:  "",
			Timeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults (struct above)
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envAliases maps well-known environment variables to koanf paths. Variables
// not in this table are ignored so unrelated process environment does not
// leak into the config tree. NODE_ENV is honored as an alias of ENVIRONMENT
// for parity with the frontend deployment; set only one of the two.
var envAliases = map[string]string{
	"NEXTAUTH_SECRET":      "security.session_secret",
	"NOTIFY_API_KEY":       "security.notify_api_key",
	"CORS_ORIGINS":         "security.cors_origins",
	"RATE_LIMIT_REQS":      "security.rate_limit_reqs",
	"RATE_LIMIT_WINDOW":    "security.rate_limit_window",
	"RATE_LIMIT_DISABLED":  "security.rate_limit_disabled",
	"GOOGLE_CLIENT_ID":     "google.client_id",
	"GOOGLE_CLIENT_SECRET": "google.client_secret",
	"GOOGLE_REDIRECT_URI":  "google.redirect_uri",
	"GOOGLE_SCOPES":        "google.scopes",
	"VAULT_API_URL":        "vault.api_url",
	"VAULT_API_KEY":        "vault.api_key",
	"VAULT_TIMEOUT":        "vault.timeout",
	"HOST":                 "server.host",
	"PORT":                 "server.port",
	"SERVER_TIMEOUT":       "server.timeout",
	"ENVIRONMENT":          "server.environment",
	"NODE_ENV":             "server.environment",
	"LOG_LEVEL":            "logging.level",
	"LOG_FORMAT":           "logging.format",
	"LOG_CALLER":           "logging.caller",
}

// envTransform maps an environment variable name to its koanf path.
// Returning "" drops the variable.
func envTransform(name string) string {
	return envAliases[name]
}

// findConfigFile returns the path of the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive as plain strings from environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"google.scopes",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. YAML-sourced values are already slices and are skipped.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}

		s, ok := val.(string)
		if !ok {
			continue
		}

		var parts []string
		for _, p := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
