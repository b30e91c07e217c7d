package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
)

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResp struct {
	Error errorDetail `json:"error"`
}

// ErrorHandler renders every error returned by a handler or middleware as
// {"error": {"code", "message", "fields"}}.  Errors outside the taxonomy
// are logged and answered with a generic 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := render(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}

func render(err error) (int, errorResp) {
	if e, ok := apperr.As(err); ok && e.Kind != apperr.KindInternal {
		return e.Kind.Status(), errorResp{Error: errorDetail{Code: string(e.Kind), Message: e.Message, Fields: e.Fields}}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, errorResp{Error: errorDetail{Code: codeForStatus(he.Code), Message: msg}}
	}
	return http.StatusInternalServerError, errorResp{Error: errorDetail{
		Code:    string(apperr.KindInternal),
		Message: "Internal server error",
	}}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return string(apperr.KindUnauthenticated)
	case http.StatusForbidden:
		return string(apperr.KindForbidden)
	case http.StatusNotFound:
		return string(apperr.KindNotFound)
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return string(apperr.KindValidation)
	}
	if status >= http.StatusInternalServerError {
		return string(apperr.KindInternal)
	}
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}

// errCase maps one repository sentinel to a taxonomy error.
type errCase struct {
	target error
	kind   apperr.Kind
	msg    string
}

func on(target error, kind apperr.Kind, msg string) errCase {
	return errCase{target: target, kind: kind, msg: msg}
}

// translate converts err using the first matching case.  Unmatched errors
// are returned unchanged and render as 500.
func translate(err error, cases ...errCase) error {
	if err == nil {
		return nil
	}
	for _, c := range cases {
		if errors.Is(err, c.target) {
			return apperr.Wrap(err, c.kind, c.msg)
		}
	}
	return err
}
