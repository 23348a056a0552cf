package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmachado/fleet-manager/internal/auth"
	"github.com/rmachado/fleet-manager/internal/domain"
)

const testSecret = "auth-test-secret-please-use-32-b"

func TestAccessToken_RoundTrip(t *testing.T) {
	user := domain.User{ID: uuid.New(), Username: "ana", Role: domain.RoleManager}

	token, err := auth.NewAccessToken(testSecret, user, time.Minute)
	require.NoError(t, err)

	claims, userID, err := auth.ParseAccessToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, domain.RoleManager, claims.Role)
}

func TestParseAccessToken_Expired(t *testing.T) {
	user := domain.User{ID: uuid.New(), Username: "ana", Role: domain.RoleOperator}

	token, err := auth.NewAccessToken(testSecret, user, -time.Minute)
	require.NoError(t, err)

	_, _, err = auth.ParseAccessToken(testSecret, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	user := domain.User{ID: uuid.New(), Username: "ana", Role: domain.RoleOperator}

	token, err := auth.NewAccessToken(testSecret, user, time.Minute)
	require.NoError(t, err)

	_, _, err = auth.ParseAccessToken("a-completely-different-secret-32", token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestParseAccessToken_Garbage(t *testing.T) {
	_, _, err := auth.ParseAccessToken(testSecret, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewRefreshToken(t *testing.T) {
	tok, err := auth.NewRefreshToken(time.Hour)
	require.NoError(t, err)

	assert.Len(t, tok.Raw, 64, "32 random bytes hex-encoded")
	assert.True(t, tok.ExpiresAt.After(time.Now()))

	other, err := auth.NewRefreshToken(time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, tok.Raw, other.Raw)
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	h1 := auth.HashRefreshToken("some-raw-token")
	h2 := auth.HashRefreshToken("some-raw-token")

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "hex SHA-256 digest")
	assert.NotEqual(t, h1, auth.HashRefreshToken("another-token"))
}

func TestPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple", 4)
	require.NoError(t, err)

	assert.True(t, auth.VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, auth.VerifyPassword(hash, "wrong password"))
}
