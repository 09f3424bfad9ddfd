package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBase36(t *testing.T) {
	got := RandomBase36(8)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-z]{8}$`), got)
	assert.NotEqual(t, got, RandomBase36(8))
	assert.Empty(t, RandomBase36(0))
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	claims := jwt.StandardClaims{Subject: "u1", ExpiresAt: time.Now().Add(time.Hour).Unix()}

	signed, err := GenerateToken(claims, "secret")
	require.NoError(t, err)

	var parsed jwt.StandardClaims
	token, err := jwt.ParseWithClaims(signed, &parsed, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "u1", parsed.Subject)
}
