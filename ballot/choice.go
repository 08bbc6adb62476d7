// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/nacl/secretbox"
)

var ErrUndecodable = errors.New("encoded choice cannot be decoded")

const nonceSize = 24

// Encoder maps candidate ids to the opaque strings stored in ballots.
//
// Encode must return the same string for the same candidate every time,
// because the tally counts exact matches of Encode(candidate.ID). The nonce
// is therefore derived from the candidate id instead of drawn at random.
type Encoder struct {
	nonceKey [32]byte
	boxKey   [32]byte
}

// NewEncoder derives the encoder keys from a secret of any length.
func NewEncoder(secret string) *Encoder {
	return &Encoder{
		nonceKey: sha256.Sum256([]byte("evote/choice-nonce\x00" + secret)),
		boxKey:   sha256.Sum256([]byte("evote/choice-box\x00" + secret)),
	}
}

func (e *Encoder) nonce(candidateID string) [nonceSize]byte {
	h := hmac.New(sha256.New, e.nonceKey[:])
	h.Write([]byte(candidateID))
	var n [nonceSize]byte
	copy(n[:], h.Sum(nil))
	return n
}

// Encode seals candidateID. The result is URL-safe base64 without padding.
func (e *Encoder) Encode(candidateID string) string {
	n := e.nonce(candidateID)
	sealed := secretbox.Seal(n[:], []byte(candidateID), &n, &e.boxKey)
	return base64.RawURLEncoding.EncodeToString(sealed)
}

// Decode recovers the candidate id from an encoded choice.
func (e *Encoder) Decode(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrUndecodable
	}

	var n [nonceSize]byte
	copy(n[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &n, &e.boxKey)
	if !ok {
		return "", ErrUndecodable
	}

	// A well-formed box under a nonce we would not have chosen was not made by Encode
	if want := e.nonce(string(plain)); !hmac.Equal(want[:], n[:]) {
		return "", ErrUndecodable
	}

	return string(plain), nil
}
