package http

import (
	"context"
	"errors"
	"net/http"

	"agrolend-backend/internal/logger"
	"agrolend-backend/pkg/apperr"

	"github.com/labstack/echo/v4"
)

var errInvalidBody = errors.New("invalid body")

type validationError struct{ details []FieldError }

func (e *validationError) Error() string { return "validation failed" }

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindEligibility:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	var ve *validationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ve.details})
	}
	if errors.Is(err, errInvalidBody) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := StatusOf(ae.Kind)
		if ae.Kind == apperr.KindStorage {
			logger.Error("storage failure", "path", c.Path(), "error", err)
			c.Response().Header().Set("Retry-After", "1")
		}
		return c.JSON(status, ErrorResponse{Error: ae.Message, Code: ae.Code})
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "request cancelled"})
	}
	logger.Error("unhandled error", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
