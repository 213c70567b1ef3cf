// Package token issues and validates the bearer tokens that carry the caller
// principal. Authentication happens here, at the edge; the services only ever
// see the already-authenticated principal.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "credvault/pkg/domain"
)

// Manager signs and validates HS256 principal tokens.
type Manager struct {
	signingKey []byte
	issuer     string
}

// NewManager creates a token manager with the given signing key.
func NewManager(signingKey string) *Manager {
	return &Manager{
		signingKey: []byte(signingKey),
		issuer:     "credvault",
	}
}

// Issue creates a signed token whose subject is the principal.
func (m *Manager) Issue(principal id.PrincipalID, ttl time.Duration) (string, error) {
	if principal.IsZero() {
		return "", fmt.Errorf("principal required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   principal.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning the principal it carries.
func (m *Manager) Validate(tokenString string) (id.PrincipalID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.signingKey, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	principal, err := id.ParsePrincipalID(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("invalid token subject: %w", err)
	}
	return principal, nil
}
