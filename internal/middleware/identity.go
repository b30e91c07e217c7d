package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/model"
)

// Context keys set by JWTAuth and RequireRole.
const (
	ctxUserID = "user_id"
	ctxUser   = "user"
)

// UserID returns the subject of the verified access token, or 0 when the
// request is anonymous.
func UserID(c echo.Context) int64 {
	id, _ := c.Get(ctxUserID).(int64)
	return id
}

// CurrentUser returns the identity RequireRole loaded for this request.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(ctxUser).(model.User)
	return u, ok
}
