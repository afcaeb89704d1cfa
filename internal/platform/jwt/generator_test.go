package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	gen := NewGenerator("test-secret", time.Hour)

	signed, err := gen.GenerateToken(42, "admin@example.com", "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	token, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestGenerateToken_WrongSecretFailsVerification(t *testing.T) {
	gen := NewGenerator("right-secret", time.Hour)

	signed, err := gen.GenerateToken(1, "a@b.com", "STUDENT")
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}
