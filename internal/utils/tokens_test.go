package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("sunset-villa-2026", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "sunset-villa-2026", hash)

	assert.True(t, VerifyPassword(hash, "sunset-villa-2026"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "sunset-villa-2026"))
}

func TestNewAccessToken(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "admin", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "42", claims["sub"], "subject is the decimal user id")
	assert.Equal(t, "admin", claims["role"])

	_, err = jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err, "wrong key must not validate")
}

func TestNewRefreshToken(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), rt.Exp, 5*time.Second)

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, rt.Raw, other.Raw)
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("abc"))
	assert.NotEqual(t, h, HashToken("abd"))
}

func TestNewOneTimeToken(t *testing.T) {
	raw, hash, exp, err := NewOneTimeToken(30)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, HashToken(raw), hash)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)
}
