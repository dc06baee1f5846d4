package http

import (
	"net/http"
	"strings"
	"time"

	"agrolend-backend/internal/adapter/middleware"
	"agrolend-backend/pkg/apperr"
	"agrolend-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// bindValid binds the body into req and runs the struct validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(req); err != nil {
		return &validationError{details: ToFieldErrors(err)}
	}
	return nil
}

// caller returns the authenticated principal or writes 401.
func caller(c echo.Context) (middleware.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return p, apperr.Unauthorized(apperr.CodeUnauthenticated, "not authenticated")
	}
	return p, nil
}

func pathID(c echo.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Param(name))
	if !id.Valid(v) {
		return "", apperr.Validation(apperr.CodeInvalidInput, "invalid "+name+" path param")
	}
	return v, nil
}

// dateRange reads ?from= and ?to= as dates or RFC3339 timestamps. A bare
// "to" date covers the whole day.
func dateRange(c echo.Context) (from, to *time.Time, err error) {
	if raw := c.QueryParam("from"); raw != "" {
		t, _, perr := parseTime(raw)
		if perr != nil {
			return nil, nil, apperr.Validation(apperr.CodeInvalidInput, "from must be YYYY-MM-DD or RFC3339")
		}
		from = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, dateOnly, perr := parseTime(raw)
		if perr != nil {
			return nil, nil, apperr.Validation(apperr.CodeInvalidInput, "to must be YYYY-MM-DD or RFC3339")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apperr.Validation(apperr.CodeInvalidInput, "to must not be before from")
	}
	return from, to, nil
}

func parseTime(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t.UTC(), false, err
}

func ok(c echo.Context, v any) error      { return c.JSON(http.StatusOK, v) }
func created(c echo.Context, v any) error { return c.JSON(http.StatusCreated, v) }
