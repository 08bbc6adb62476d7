// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the evote API.

# Handler Types

  - ElectionHandler: public election listing and detail
  - VotingHandler: ballot form, vote casting, has-voted check
  - ResultsHandler: tally, turnout, and the live turnout websocket
  - AdminHandler: election, position, and candidate management, photo
    upload, and the decoded audit

Handlers are built from the stores and the voting service:

	votingHandler := handlers.NewVotingHandler(svc, hub)

Authentication is done by middleware before a handler runs. Handlers read
the caller's identity from the request context and never from the body.

# Vote Outcomes

POST /elections/{id}/votes answers with a CastVoteResponse:

	201 recorded
	404 not_found       election does not exist
	409 already_voted   a ballot for this voter exists
	403 polls_closed    end time has passed
	400 invalid_choice  candidate is not on this election's ballot

# Errors

catalog.ErrNotFound maps to 404, validation errors to 400. Anything else
is logged and returned as a bare 500.
*/
package handlers
