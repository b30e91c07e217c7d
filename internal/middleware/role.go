package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
	"github.com/iliyamo/freelance-marketplace/internal/model"
	"github.com/iliyamo/freelance-marketplace/internal/repository"
)

// UserLoader fetches the identity behind a token subject.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
}

// Role predicates for RequireRole.
func IsClient(u model.User) bool    { return u.IsClient }
func IsSeller(u model.User) bool    { return u.IsSeller }
func IsSuperuser(u model.User) bool { return u.IsSuperuser }

// RequireRole reloads the authenticated identity and checks it against
// allowed.  It must run after JWTAuth.  A deleted identity yields
// NotFound, a failed predicate Forbidden with msg.
func RequireRole(users UserLoader, allowed func(model.User) bool, msg string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := loadUser(c, users)
			if err != nil {
				return err
			}
			if !allowed(u) {
				return apperr.Forbidden(msg)
			}
			c.Set(ctxUser, u)
			return next(c)
		}
	}
}

// LoadUser reloads the identity without a role check.
func LoadUser(users UserLoader) echo.MiddlewareFunc {
	return RequireRole(users, func(model.User) bool { return true }, "")
}

func loadUser(c echo.Context, users UserLoader) (model.User, error) {
	id := UserID(c)
	if id == 0 {
		return model.User{}, apperr.Unauthenticated(msgTokenInvalid)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, apperr.Wrap(err, apperr.KindNotFound, "User not found")
	}
	return u, err
}
