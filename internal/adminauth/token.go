// Package adminauth issues and verifies the short-lived signed tokens that
// gate the /debug introspection endpoint. The token carries no privileges
// beyond "may read debug output" and is deliberately separate from the
// long-lived inbound API key so that debug access can be minted per-session
// and expires on its own.
package adminauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSigningDisabled is returned by both Issue and Verify when no admin
// secret is configured, so no debug token can be minted or accepted.
var ErrSigningDisabled = errors.New("adminauth: no admin secret configured")

const issuer = "gcli2api-go-debug"

// Issue mints a token valid for ttl, signed with secret using HS256.
func Issue(secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrSigningDisabled
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "debug-session",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks a token's signature, issuer, and expiry, returning an error
// if any check fails.
func Verify(secret, tokenString string) error {
	if secret == "" {
		return ErrSigningDisabled
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return fmt.Errorf("adminauth: token invalid")
	}
	return nil
}
