// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the evote API server.

evote runs single-choice elections: each authenticated voter casts at most
one ballot per election, ballots are stored under a keyed pseudonym with a
sealed choice, and results are tallied on demand.

# Starting the Server

	VOTER_TOKEN_SALT=... VOTE_ENCRYPTION_KEY=... JWT_SECRET=... \
	DATABASE_URL=file:evote.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

Settings may also come from a .env file (-env to choose the path).

# Configuration

Required:

  - DATABASE_URL (-d): database connection string
  - VOTER_TOKEN_SALT (-voter-salt): key for voter pseudonyms
  - VOTE_ENCRYPTION_KEY (-vote-key): key for sealing ballot choices
  - JWT_SECRET (-jwt-secret): session token signing key

Optional:

  - PORT (-p): server port (default 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)
  - MEDIA_DIR (-media-dir): candidate photo directory (default media)
  - PERCENT_SCOPE (-percent-scope): election or position (default election)

Changing VOTER_TOKEN_SALT or VOTE_ENCRYPTION_KEY after ballots exist
breaks duplicate detection and tallying for those ballots.

# Architecture

  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JWT authentication, JSON helpers
  - voting: cast-vote workflow and tally
  - ballot: ballot store and choice encoder
  - catalog: elections, positions, candidates
  - auth: voter pseudonyms and session tokens
  - live: websocket turnout feed
  - media: candidate photo storage
  - db: connections and schema
  - cliparse: configuration parsing

The operator CLI lives in cmd/evotectl.
*/
package main
