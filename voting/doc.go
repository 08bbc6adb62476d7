// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting is the vote integrity core.

CastVote walks one attempt through a fixed order of checks and ends in
exactly one state:

	resolve election    -> Rejected(not_found)
	authenticate voter  -> auth.ErrUnauthenticated
	ballot already cast -> Rejected(already_voted)
	after end time      -> Rejected(polls_closed)
	candidate not in it -> Rejected(invalid_choice)
	after end time      -> Rejected(polls_closed)
	insert if absent    -> Recorded, or Rejected(already_voted)

Only the last step writes. The voter is stored as an HMAC pseudonym and
the choice as a sealed, deterministic encoding, so the ballot table on its
own links neither a person nor a candidate to a row.

GetResults tallies by counting ballots whose stored choice equals the
encoding of each candidate. Audit decodes every stored choice instead.
*/
package voting
