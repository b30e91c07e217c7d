package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/model"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func TestJWTAuth(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens := utils.NewTokenService("secret", 30*time.Minute, 24*time.Hour)
	tokens.Now = func() time.Time { return now }
	pair, err := tokens.Issue(42)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		advance time.Duration
		wantMsg string
	}{
		{name: "valid access", header: "Bearer " + pair.Access},
		{name: "lowercase scheme", header: "bearer " + pair.Access},
		{name: "missing header", wantMsg: msgTokenInvalid},
		{name: "no scheme", header: pair.Access, wantMsg: msgTokenInvalid},
		{name: "refresh token", header: "Bearer " + pair.Refresh, wantMsg: msgTokenInvalid},
		{name: "garbage", header: "Bearer abc.def.ghi", wantMsg: msgTokenInvalid},
		{name: "expired", header: "Bearer " + pair.Access, advance: 30 * time.Minute, wantMsg: msgTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens.Now = func() time.Time { return now.Add(tt.advance) }
			c, _ := newContext(tt.header)
			err := JWTAuth(tokens)(okHandler)(c)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(42), UserID(c))
				return
			}
			e, ok := apperr.As(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, apperr.KindUnauthenticated, e.Kind)
			assert.Equal(t, tt.wantMsg, e.Message)
			assert.Zero(t, UserID(c))
		})
	}
}

type fakeUsers map[int64]model.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (model.User, error) {
	u, ok := f[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func TestRequireRole(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, IsClient: true},
		2: {ID: 2, IsSeller: true},
	}
	mw := RequireRole(users, IsClient, "Only clients can post gigs")

	c, _ := newContext("")
	c.Set(ctxUserID, int64(1))
	require.NoError(t, mw(okHandler)(c))
	u, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, int64(1), u.ID)

	c, _ = newContext("")
	c.Set(ctxUserID, int64(2))
	err := mw(okHandler)(c)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindForbidden, e.Kind)
	assert.Equal(t, "Only clients can post gigs", e.Message)

	// deleted identity with a still valid token
	c, _ = newContext("")
	c.Set(ctxUserID, int64(3))
	err = mw(okHandler)(c)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))

	c, _ = newContext("")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(mw(okHandler)(c)))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(AccessLog(zap.New(core)), Metrics())
	e.GET("/boom", func(echo.Context) error { return errors.New("boom") })
	e.GET("/ok", okHandler)

	for _, path := range []string{"/ok", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusNoContent), entries[0].ContextMap()["status"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
}
