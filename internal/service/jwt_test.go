package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateSessionToken("abc-123")
	require.NoError(t, err)

	sid, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", sid)
}

func TestSessionToken_RandomSecret(t *testing.T) {
	InitJWT("")
	token, err := GenerateSessionToken("s1")
	require.NoError(t, err)

	sid, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s1", sid)

	// a new random secret invalidates older tokens
	InitJWT("")
	_, err = ParseSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_Rejected(t *testing.T) {
	InitJWT("test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": "s1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	expiredStr, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noSID := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	noSIDStr, err := noSID.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": "s1"})
	noExpStr, err := noExp.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": "s1",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	wrongKeyStr, err := wrongKey.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":   expiredStr,
		"no sid":    noSIDStr,
		"no exp":    noExpStr,
		"wrong key": wrongKeyStr,
		"garbage":   "not.a.token",
	} {
		_, err := ParseSessionToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}
