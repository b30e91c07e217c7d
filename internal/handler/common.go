package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/freelance-marketplace/internal/apperr"
)

// dbTimeout bounds the database work of a single request.
const dbTimeout = 5 * time.Second

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// bind decodes the request into req and runs the struct validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.Wrap(err, apperr.KindValidation, "Invalid request body")
	}
	return c.Validate(req)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationFields("Validation failed", map[string]string{name: "Must be a positive integer"})
	}
	return id, nil
}

// Accepted date layouts for form and JSON date fields.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.ValidationFields("Validation failed", map[string]string{field: "Must be a date (YYYY-MM-DD)"})
}

// optionalDate parses raw unless it is blank.
func optionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optionalString returns nil for a blank value.
func optionalString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

type messageResp struct {
	Message string `json:"message"`
}
