// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, status, remote and
duration_ms. 5xx responses are logged at error level.

# Authentication

Session tokens are HS256 JWTs sent as "Authorization: Bearer <token>"
(or ?token= on the websocket handshake):

	middleware.RequireVoter(cfg.JWTSecret, h.CastVote)
	middleware.RequireCapability(cfg.JWTSecret, auth.IsAdminAndApproved, h.CreateElection)

Handlers read the caller with PrincipalFromContext. A missing or invalid
token is 401; a valid token that fails the capability check is 403.

# CORS

	server := http.Server{Handler: middleware.CORS(mux)}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
