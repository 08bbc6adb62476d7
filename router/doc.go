// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the evote API.

	hub := live.NewHub()
	go hub.Run(ctx)
	mux := router.NewRouter(db, cfg, hub)

# Endpoints

Public:

	GET /health
	GET /elections          - List with is_active and closes
	GET /elections/{id}     - Election with positions and candidates
	GET /elections/{id}/turnout
	GET /media/...          - Candidate photos

Voter (Bearer token):

	GET  /elections/{id}/ballot   - Ballot form, or why it is unavailable
	POST /elections/{id}/votes    - Cast a vote
	GET  /elections/{id}/my-vote  - Whether the caller has voted
	GET  /elections/{id}/results  - Tally
	GET  /elections/{id}/live     - Turnout websocket

Admin (Bearer token, role admin, approved):

	POST   /admin/elections
	PUT    /admin/elections/{id}
	DELETE /admin/elections/{id}
	GET    /admin/elections/{id}/candidates
	GET    /admin/elections/{id}/audit
	POST   /admin/elections/{id}/positions
	PUT    /admin/positions/{id}
	DELETE /admin/positions/{id}
	POST   /admin/positions/{id}/candidates
	PUT    /admin/candidates/{id}
	DELETE /admin/candidates/{id}
	POST   /admin/candidates/{id}/photo
*/
package router
