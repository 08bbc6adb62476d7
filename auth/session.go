// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Roles carried in session tokens
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// Principal is the authenticated caller.
type Principal struct {
	Identity string
	Role     string
	Approved bool
}

// Claims is the JWT payload. Subject holds the voter identity.
type Claims struct {
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for p valid for ttl from now.
func IssueToken(secret string, p Principal, ttl time.Duration, now time.Time) (string, error) {
	if p.Identity == "" {
		return "", ErrUnauthenticated
	}

	claims := Claims{
		Role:     p.Role,
		Approved: p.Approved,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns its principal.
func ParseToken(secret, tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}

	role := claims.Role
	if role == "" {
		role = RoleVoter
	}

	return Principal{
		Identity: claims.Subject,
		Role:     role,
		Approved: claims.Approved,
	}, nil
}

// IsAdminAndApproved is the capability required for election management.
// An admin account does nothing until another admin approves it.
func IsAdminAndApproved(p Principal) bool {
	return p.Role == RoleAdmin && p.Approved
}
