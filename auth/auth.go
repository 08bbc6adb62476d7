// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrUnauthenticated = errors.New("voter is not authenticated")
)

// VoterTokenLength is the length of every value returned by Pseudonymize.
const VoterTokenLength = sha256.Size * 2

// Pseudonymize derives the stored voter token from an authenticated identity.
// It is deterministic and one-way. The election is deliberately not an input:
// ballots are scoped by (election_id, voter_token), so the same token shows up
// in every election the voter takes part in.
func Pseudonymize(voterIdentity, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(voterIdentity))
	return hex.EncodeToString(h.Sum(nil))
}
