package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AccessLog logs one line per request.  Errors are rendered through the
// echo error handler first so the logged status is the one sent.
func AccessLog(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			res := c.Response()
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.Int64("size", res.Size),
			}
			if id := UserID(c); id != 0 {
				fields = append(fields, zap.Int64("user_id", id))
			}
			if res.Status >= 500 {
				log.Error("http request", fields...)
			} else {
				log.Info("http request", fields...)
			}
			return nil
		}
	}
}
