package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Verification failures.  Callers only distinguish expired from invalid.
var (
	ErrExpiredToken   = errors.New("token is expired")
	ErrInvalidToken   = errors.New("token is invalid")
	ErrWrongTokenType = fmt.Errorf("%w: unexpected token type", ErrInvalidToken)
)

// Claims is the JSON claim set: {type, user_id, exp, jti}.
type Claims struct {
	Type   string `json:"type"`
	UserID int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// TokenService issues and verifies HS256 tokens under one process-wide
// secret.  It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time // nil means time.Now
}

// NewTokenService builds a service with the given secret and lifetimes.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{Secret: []byte(secret), AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue signs an access token and a refresh token for userID.  Each token
// gets its own random jti, so two pairs for the same user never collide.
func (s *TokenService) Issue(userID int64) (TokenPair, error) {
	now := s.now()
	access, accessExp, err := s.sign(userID, TypeAccess, now.Add(s.AccessTTL))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.sign(userID, TypeRefresh, now.Add(s.RefreshTTL))
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *TokenService) sign(userID int64, typ string, exp time.Time) (string, time.Time, error) {
	jti, err := randomURLSafe(32)
	if err != nil {
		return "", time.Time{}, err
	}
	claims := Claims{
		Type:   typ,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	// exp is serialized with second precision
	return signed, exp.Truncate(time.Second), nil
}

// Verify checks signature, algorithm and expiry.  A token is expired once
// the current time reaches exp.  It does not look at the type claim.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}

// VerifyAccess accepts only access tokens.
func (s *TokenService) VerifyAccess(raw string) (*Claims, error) {
	return s.verifyType(raw, TypeAccess)
}

// VerifyRefresh accepts only refresh tokens.
func (s *TokenService) VerifyRefresh(raw string) (*Claims, error) {
	return s.verifyType(raw, TypeRefresh)
}

func (s *TokenService) verifyType(raw, typ string) (*Claims, error) {
	claims, err := s.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// randomURLSafe returns n bytes of secure random data, base64url encoded
// without padding.
func randomURLSafe(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
