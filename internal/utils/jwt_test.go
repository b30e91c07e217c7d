package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(now time.Time) *TokenService {
	s := NewTokenService("test-secret", 30*time.Minute, 24*time.Hour)
	s.Now = func() time.Time { return now }
	return s
}

func TestIssueDistinctTokens(t *testing.T) {
	s := newTestService(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	a, err := s.Issue(7)
	require.NoError(t, err)
	b, err := s.Issue(7)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, tok := range []string{a.Access, a.Refresh, b.Access, b.Refresh} {
		assert.False(t, seen[tok], "duplicate token")
		seen[tok] = true
	}
}

func TestIssueClaims(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newTestService(now)

	pair, err := s.Issue(42)
	require.NoError(t, err)

	access, err := s.Verify(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), access.UserID)
	assert.Equal(t, TypeAccess, access.Type)
	assert.Equal(t, now.Add(30*time.Minute), access.ExpiresAt.Time.UTC())
	assert.NotEmpty(t, access.ID)

	refresh, err := s.Verify(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), refresh.UserID)
	assert.Equal(t, TypeRefresh, refresh.Type)
	assert.Equal(t, now.Add(24*time.Hour), refresh.ExpiresAt.Time.UTC())
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newTestService(issued)
	pair, err := s.Issue(1)
	require.NoError(t, err)

	exp := pair.AccessExpiresAt
	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"one second before", exp.Add(-time.Second), nil},
		{"exactly at exp", exp, ErrExpiredToken},
		{"after exp", exp.Add(time.Minute), ErrExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			s.Now = func() time.Time { return at }
			_, err := s.VerifyAccess(pair.Access)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifyInvalid(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newTestService(now)
	pair, err := s.Issue(1)
	require.NoError(t, err)

	other := newTestService(now)
	other.Secret = []byte("another-secret")
	foreign, err := other.Issue(1)
	require.NoError(t, err)

	parts := strings.Split(pair.Access, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Type: TypeAccess, UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Type: TypeAccess, UserID: 1}).
		SignedString(s.Secret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Type: TypeAccess, UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}).
		SignedString(s.Secret)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong secret":   foreign.Access,
		"tampered":       tampered,
		"alg none":       none,
		"other hmac alg": hs512,
		"missing exp":    noExp,
		"garbage":        "not.a.token",
		"empty":          "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.NotErrorIs(t, err, ErrExpiredToken)
		})
	}
}

func TestVerifyType(t *testing.T) {
	s := newTestService(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	pair, err := s.Issue(3)
	require.NoError(t, err)

	_, err = s.VerifyAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.VerifyRefresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	c, err := s.VerifyRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.UserID)
}
