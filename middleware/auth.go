// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/evote/auth"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by RequireVoter.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(auth.Principal)
	return p, ok
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Browsers cannot set headers on a websocket handshake, so the token
// query parameter is accepted as a fallback.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// RequireVoter rejects requests without a valid session token with 401 and
// otherwise stores the principal in the request context.
func RequireVoter(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		p, err := auth.ParseToken(secret, token)
		if err != nil {
			slog.Debug("rejected session token", "error", err, "remote", GetClientIP(r))
			ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		next(w, r.WithContext(WithPrincipal(r.Context(), p)))
	}
}

// RequireCapability is RequireVoter plus a check on the principal. A valid
// session that fails allowed gets 403.
func RequireCapability(secret string, allowed func(auth.Principal) bool, next http.HandlerFunc) http.HandlerFunc {
	return RequireVoter(secret, func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		if !allowed(p) {
			slog.Warn("capability check failed", "role", p.Role, "path", r.URL.Path)
			ErrorResponse(w, http.StatusForbidden, "You do not have permission to do this")
			return
		}
		next(w, r)
	})
}
