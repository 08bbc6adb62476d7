// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides voter pseudonyms and session tokens.

# Voter Tokens

Ballots never store who voted. They store a pseudonym:

	token := auth.Pseudonymize(identity, salt)

The pseudonym is HMAC-SHA256 of the identity keyed by the server-wide
VOTER_TOKEN_SALT, hex encoded (64 characters). It is deterministic, so the
ballot table's UNIQUE (election_id, voter_token) index can reject a second
ballot. It does not include the election, so ballots from one voter in
different elections share a token and are linkable to each other, though not
to the identity without the salt.

# Session Tokens

Callers authenticate with an HS256 JWT:

	signed, err := auth.IssueToken(secret, auth.Principal{Identity: "42", Role: auth.RoleVoter}, time.Hour, time.Now())
	p, err := auth.ParseToken(secret, signed)

The subject is the voter identity. Role and approval ride along as claims.

# Capabilities

Election management is gated by a predicate rather than a role hierarchy:

	if !auth.IsAdminAndApproved(p) { ... }
*/
package auth
