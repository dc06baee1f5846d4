package http

import (
	"agrolend-backend/internal/usecase/dashboard"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct{ uc *dashboard.Usecase }

func NewDashboardHandler(uc *dashboard.Usecase) *DashboardHandler { return &DashboardHandler{uc: uc} }

func (h *DashboardHandler) Farmer(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Farmer(c.Request().Context(), p.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *DashboardHandler) Admin(c echo.Context) error {
	out, err := h.uc.Admin(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}
