// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot stores votes.

# Encoded Choices

A ballot does not reference its candidate by foreign key. It stores

	enc := ballot.NewEncoder(secret)
	choice := enc.Encode(candidateID)

which is secretbox(candidateID) under a nonce derived from the candidate id
itself. Encoding is deterministic, so tallies match on equality, and it is
reversible with the secret via Decode.

# Store

	store := ballot.NewStore(conn)
	res, err := store.InsertIfAbsent(ctx, electionID, voterToken, choice)

InsertIfAbsent returns AlreadyVoted, not an error, when the
(election_id, voter_token) unique index rejects the row. Exists is a cheap
pre-check for nicer messages and must not be relied on for correctness.
*/
package ballot
