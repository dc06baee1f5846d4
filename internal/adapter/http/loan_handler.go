package http

import (
	"context"

	"agrolend-backend/internal/domain/loan"
	"agrolend-backend/internal/domain/user"
	"agrolend-backend/internal/usecase/eligibility"
	loanUC "agrolend-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	uc       *loanUC.Usecase
	ceilings *eligibility.Calculator
}

func NewLoanHandler(uc *loanUC.Usecase, ceilings *eligibility.Calculator) *LoanHandler {
	return &LoanHandler{uc: uc, ceilings: ceilings}
}

type requestLoanReq struct {
	Amount decimal.Decimal `json:"amount" validate:"money"`
	Reason string          `json:"reason" validate:"max=2000"`
}

func (h *LoanHandler) Request(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req requestLoanReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Request(c.Request().Context(), p.UserID, loanUC.RequestInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return created(c, out)
}

type editLoanReq struct {
	Amount decimal.Decimal `json:"amount" validate:"money"`
	Reason *string         `json:"reason" validate:"omitempty,max=2000"`
}

func (h *LoanHandler) Edit(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "loan_id")
	if err != nil {
		return writeError(c, err)
	}
	var req editLoanReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Edit(c.Request().Context(), p.UserID, id, loanUC.EditInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *LoanHandler) Cancel(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "loan_id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Cancel(c.Request().Context(), p.UserID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]string{"message": "loan cancelled"})
}

func (h *LoanHandler) Approve(c echo.Context) error {
	return h.review(c, h.uc.Approve)
}

func (h *LoanHandler) Reject(c echo.Context) error {
	return h.review(c, h.uc.Reject)
}

func (h *LoanHandler) review(c echo.Context, fn func(ctx context.Context, adminID, loanID string) (*loan.Loan, error)) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "loan_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := fn(c.Request().Context(), p.UserID, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

// Eligibility reports the caller's current loan ceiling.
func (h *LoanHandler) Eligibility(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	ceil, err := h.ceilings.Compute(c.Request().Context(), p.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]any{
		"eligible":      ceil.Eligible(),
		"eligible_loan": ceil.Amount,
		"harvest_id":    ceil.HarvestID,
		"multiplier":    h.ceilings.Multiplier(),
	})
}

func (h *LoanHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "loan_id")
	if err != nil {
		return writeError(c, err)
	}
	var out *loan.Loan
	if p.Role == user.RoleAdmin {
		out, err = h.uc.Get(c.Request().Context(), id)
	} else {
		out, err = h.uc.GetForFarmer(c.Request().Context(), id, p.UserID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *LoanHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	f := loan.Filter{Status: loan.Status(c.QueryParam("status")), From: from, To: to}
	if p.Role == user.RoleAdmin {
		f.FarmerID = c.QueryParam("farmer_id")
	} else {
		f.FarmerID = p.UserID
	}
	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}
