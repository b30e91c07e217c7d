package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	passwords := []string{"secret", "päss wörd", "x", strings.Repeat("a", 72)}
	for _, p := range passwords {
		hash, err := HashPassword(p, bcrypt.MinCost)
		require.NoError(t, err)
		assert.True(t, VerifyPassword(hash, p), p)
		assert.False(t, VerifyPassword(hash, p+"!"), p)
	}
}

func TestVerifyPasswordRejectsLongerInput(t *testing.T) {
	stored := strings.Repeat("a", 72)
	hash, err := HashPassword(stored, bcrypt.MinCost)
	require.NoError(t, err)

	// bcrypt alone would accept any input sharing the first 72 bytes
	assert.False(t, VerifyPassword(hash, stored+"-totally-different-suffix"))
	assert.True(t, VerifyPassword(hash, stored))
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "secret"))
	assert.False(t, VerifyPassword("", ""))
}
