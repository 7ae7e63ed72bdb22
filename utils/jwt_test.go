package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	signed, err := tokens.GenerateToken("abc", "amina", "admin")
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.ID)
	assert.Equal(t, "amina", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokensRejectOtherSecret(t *testing.T) {
	signed, err := NewTokens("one", time.Hour).GenerateToken("abc", "amina", "admin")
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, err := tokens.GenerateToken("abc", "amina", "employee")
	require.NoError(t, err)

	_, err = tokens.ValidateToken(signed)
	assert.Error(t, err)
}

func TestTokensRejectNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaim{ID: "abc", Role: "admin"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.NoError(t, VerifyPassword(hash, "hunter22"))
	assert.Error(t, VerifyPassword(hash, "wrong"))
}
