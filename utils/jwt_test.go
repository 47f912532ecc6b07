package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.GenerateToken("admin")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	other, err := NewTokenManager("other", time.Hour).GenerateToken("admin")
	require.NoError(t, err)
	_, err = m.ValidateToken(other)
	assert.Error(t, err, "wrong key")

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken("admin")
	require.NoError(t, err)
	_, err = m.ValidateToken(old)
	assert.Error(t, err, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaim{Role: "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(unsigned)
	assert.Error(t, err, "alg none")

	_, err = m.ValidateToken("garbage")
	assert.Error(t, err)
}

func TestEmptyKeyNeverValidates(t *testing.T) {
	m := NewTokenManager("", time.Hour)

	_, err := m.GenerateToken("admin")
	assert.ErrorIs(t, err, ErrNoSigningKey)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaim{Role: "admin"}).SignedString([]byte{})
	require.NoError(t, err)
	_, err = m.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrNoSigningKey)
}
