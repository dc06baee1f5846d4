package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agrolend-backend/pkg/apperr"

	"github.com/labstack/echo/v4"
)

func TestStatusOf(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation:   http.StatusBadRequest,
		apperr.KindEligibility:  http.StatusBadRequest,
		apperr.KindNotFound:     http.StatusNotFound,
		apperr.KindInvalidState: http.StatusConflict,
		apperr.KindConflict:     http.StatusConflict,
		apperr.KindUnauthorized: http.StatusUnauthorized,
		apperr.KindStorage:      http.StatusServiceUnavailable,
		apperr.Kind("other"):    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := StatusOf(kind); got != want {
			t.Fatalf("StatusOf(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error", apperr.NotFound(apperr.CodeLoanNotFound, "loan not found"), http.StatusNotFound, apperr.CodeLoanNotFound},
		{"wrapped app error", fmt.Errorf("ctx: %w", apperr.Conflict(apperr.CodeAlreadyApproved, "dup")), http.StatusConflict, apperr.CodeAlreadyApproved},
		{"storage", apperr.Storage(errors.New("deadlock")), http.StatusServiceUnavailable, apperr.CodeStorage},
		{"bind", errInvalidBody, http.StatusBadRequest, ""},
		{"dto", &validationError{details: []FieldError{{Field: "amount", Message: "is required"}}}, http.StatusUnprocessableEntity, ""},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if err := writeError(c, tc.err); err != nil {
				t.Fatalf("writeError: %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var er ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
				t.Fatalf("bad json: %v", err)
			}
			if er.Code != tc.code {
				t.Fatalf("code = %q, want %q", er.Code, tc.code)
			}
			if er.Error == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

func TestStorageErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = writeError(c, apperr.Storage(errors.New("dial tcp 10.0.0.5:3306: secret-host")))
	if got := rec.Body.String(); strings.Contains(got, "secret-host") {
		t.Fatalf("storage cause leaked: %s", got)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
}
