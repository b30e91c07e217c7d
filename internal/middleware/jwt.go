package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/utils"
)

// Messages returned by the gate.
const (
	msgTokenExpired = "Token is expired!"
	msgTokenInvalid = "Token invalid!"
)

// JWTAuth validates the Bearer access token of each request and stores its
// user id in the context.  Refresh tokens are rejected here; they are only
// good for the refresh exchange.
func JWTAuth(tokens *utils.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return apperr.Unauthenticated(msgTokenInvalid)
			}
			claims, err := tokens.VerifyAccess(raw)
			if err != nil {
				if errors.Is(err, utils.ErrExpiredToken) {
					return apperr.Wrap(err, apperr.KindUnauthenticated, msgTokenExpired)
				}
				return apperr.Wrap(err, apperr.KindUnauthenticated, msgTokenInvalid)
			}
			c.Set(ctxUserID, claims.UserID)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}
