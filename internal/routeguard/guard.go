// Tasty Creative - Admin Dashboard and Notification Gateway
// Copyright 2026 rfldln
// SPDX-License-Identifier: MIT
// https://github.com/rfldln/Tasty-Creative-Web-sub002

// Package routeguard gates page routes on the session token.
//
// Only the dashboard root and the admin section are evaluated; every other
// path passes through untouched. The decision logic is a pure function over
// (path, claims) so the full transition table is unit-testable without HTTP.
package routeguard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/logging"
	"github.com/rfldln/Tasty-Creative-Web-sub002/internal/session"
)

// Paths the guard redirects to.
const (
	loginPath = "/login"
	rootPath  = "/"
)

// Action tells the middleware what to do with a request.
type Action int

const (
	// ActionAllow passes the request to the next handler.
	ActionAllow Action = iota
	// ActionRedirect sends a 307 redirect to RedirectTo.
	ActionRedirect
)

// Decision is the outcome of evaluating a guarded path.
type Decision struct {
	Action     Action
	RedirectTo string
}

// Guarded reports whether the guard evaluates the given path at all.
// Only the exact root and the admin section are in scope.
func Guarded(path string) bool {
	if path == rootPath {
		return true
	}
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// Evaluate applies the access rules to a guarded path.
//
// The transitions, in order:
//  1. Root without a session: redirect to the login page.
//  2. Admin section without a session: redirect to login, carrying the
//     requested path so login can bounce the user back.
//  3. Admin section with a non-admin session: redirect to the root.
//  4. Everything else: allow.
//
// Callers must check Guarded first; Evaluate assumes the path is in scope.
func Evaluate(path string, claims *session.Claims) Decision {
	hasToken := claims != nil
	isAdminPath := path != rootPath

	switch {
	case !isAdminPath && !hasToken:
		return Decision{Action: ActionRedirect, RedirectTo: loginPath}

	case isAdminPath && !hasToken:
		q := url.Values{"callbackUrl": {path}}
		return Decision{Action: ActionRedirect, RedirectTo: loginPath + "?" + q.Encode()}

	case isAdminPath && !claims.IsAdmin:
		return Decision{Action: ActionRedirect, RedirectTo: rootPath}

	default:
		return Decision{Action: ActionAllow}
	}
}

// Middleware returns an http middleware enforcing the route access rules.
// Token verification is fail-open: a malformed or expired token behaves
// exactly like no token at all.
func Middleware(reader *session.TokenReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Guarded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			claims, _ := reader.FromRequest(r)
			decision := Evaluate(r.URL.Path, claims)
			if decision.Action == ActionRedirect {
				logging.Debug().
					Str("path", r.URL.Path).
					Str("redirect_to", decision.RedirectTo).
					Bool("has_token", claims != nil).
					Msg("route access redirect")
				http.Redirect(w, r, decision.RedirectTo, http.StatusTemporaryRedirect)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
