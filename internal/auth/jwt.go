// Package auth issues and verifies the credentials used by the API:
// HS256 JWT access tokens, opaque refresh tokens, and bcrypt password hashes.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken signs an HS256 JWT for the given user, valid for ttl.
func NewAccessToken(secret string, user domain.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken verifies signature and expiry and returns the claims.
// Any failure (bad signature, expired, malformed subject) maps to
// domain.ErrUnauthorized so callers need not inspect jwt internals.
func ParseAccessToken(secret, tokenString string) (Claims, uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, uuid.Nil, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Claims{}, uuid.Nil, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	return *claims, userID, nil
}

// RefreshToken is a long-lived opaque credential used to mint new access
// tokens. Only the SHA-256 hash of Raw is stored server-side, so a leaked
// database cannot be replayed against the refresh endpoint.
type RefreshToken struct {
	Raw       string
	ExpiresAt time.Time
}

// NewRefreshToken returns a cryptographically random token valid for ttl.
func NewRefreshToken(ttl time.Duration) (RefreshToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, fmt.Errorf("auth.NewRefreshToken: %w", err)
	}
	return RefreshToken{
		Raw:       hex.EncodeToString(buf),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// HashRefreshToken returns the hex SHA-256 digest stored at rest.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
