// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/evote/auth"
	"github.com/danielhkuo/evote/catalog"
	"github.com/danielhkuo/evote/media"
	"github.com/danielhkuo/evote/middleware"
)

// writeError maps a service or store error to a response. Anything
// unrecognised is logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, catalog.ErrTitleRequired),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrInvalidWindow),
		errors.Is(err, media.ErrInvalidImage),
		errors.Is(err, media.ErrInvalidID):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
	default:
		slog.Error("request failed", "what", what, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// identity is the voter identity placed in the context by RequireVoter.
func identity(r *http.Request) string {
	p, _ := middleware.PrincipalFromContext(r.Context())
	return p.Identity
}
