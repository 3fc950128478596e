// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package session reads and verifies the signed session token carried by
// every gated request.
//
// Verification failures are deliberately indistinguishable from an absent
// token: the route guard consumes a (claims, ok) pair and treats malformed,
// expired, and missing tokens the same way. This keeps the fail-open redirect
// path a single auditable state-machine transition instead of an
// exception-driven branch.
package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/config"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
)

// Cookie names checked for the session token, in order. The __Secure- variant
// is what the login flow sets behind HTTPS.
var sessionCookieNames = []string{
	"__Secure-next-auth.session-token",
	"next-auth.session-token",
}

// Claims are the verified contents of a session token.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenReader verifies session tokens against the server-held secret.
// Tokens are HMAC-SHA256 signed; any other algorithm is rejected.
type TokenReader struct {
	secret []byte
}

// NewTokenReader creates a token reader from the security configuration.
func NewTokenReader(cfg *config.SecurityConfig) (*TokenReader, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("session secret is required but was empty")
	}
	return &TokenReader{secret: []byte(cfg.SessionSecret)}, nil
}

// Verify validates a raw token string and extracts its claims.
func (r *TokenReader) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// FromRequest resolves the session claims for an inbound request.
//
// The token is taken from the session cookie (secure variant first) or from
// an Authorization: Bearer header. Any verification failure is reported as
// "no token": the second return is false and no error escapes.
func (r *TokenReader) FromRequest(req *http.Request) (*Claims, bool) {
	tokenString := extractToken(req)
	if tokenString == "" {
		return nil, false
	}

	claims, err := r.Verify(tokenString)
	if err != nil {
		// Fail open to the unauthenticated path; log for auditability.
		logging.Debug().Err(err).Str("path", req.URL.Path).Msg("session token rejected")
		return nil, false
	}
	return claims, true
}

// GenerateToken mints a signed session token. Used by tests and local
// tooling; production tokens are issued by the login flow.
func (r *TokenReader) GenerateToken(subject string, isAdmin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// extractToken pulls the raw token from cookies or the Authorization header.
func extractToken(req *http.Request) string {
	for _, name := range sessionCookieNames {
		if cookie, err := req.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
