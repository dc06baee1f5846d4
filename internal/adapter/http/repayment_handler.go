package http

import (
	"context"
	"strings"

	"agrolend-backend/internal/domain/repayment"
	"agrolend-backend/internal/domain/user"
	repaymentUC "agrolend-backend/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const receiptField = "receipt"

type RepaymentHandler struct{ uc *repaymentUC.Usecase }

func NewRepaymentHandler(uc *repaymentUC.Usecase) *RepaymentHandler {
	return &RepaymentHandler{uc: uc}
}

type submitRepaymentReq struct {
	LoanID string          `json:"loan_id" validate:"required,hex32"`
	Amount decimal.Decimal `json:"amount"  validate:"money"`
	Method string          `json:"method"  validate:"required,oneof=mobile_money bank cash"`
	Notes  string          `json:"notes"   validate:"max=2000"`
}

// Submit accepts JSON, or multipart/form-data carrying an optional "receipt" file.
func (h *RepaymentHandler) Submit(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req submitRepaymentReq
	var receipt *repaymentUC.Receipt
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		receipt, err = h.bindMultipart(c, &req)
		if err != nil {
			return writeError(c, err)
		}
		if err := c.Validate(&req); err != nil {
			return writeError(c, &validationError{details: ToFieldErrors(err)})
		}
	} else if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Submit(c.Request().Context(), p.UserID, repaymentUC.SubmitInput{
		LoanID:  req.LoanID,
		Amount:  req.Amount,
		Method:  repayment.Method(req.Method),
		Notes:   req.Notes,
		Receipt: receipt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return created(c, out)
}

func (h *RepaymentHandler) bindMultipart(c echo.Context, req *submitRepaymentReq) (*repaymentUC.Receipt, error) {
	req.LoanID = strings.TrimSpace(c.FormValue("loan_id"))
	req.Method = strings.TrimSpace(c.FormValue("method"))
	req.Notes = c.FormValue("notes")
	if raw := strings.TrimSpace(c.FormValue("amount")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &validationError{details: []FieldError{{Field: "amount", Message: "must be a decimal number"}}}
		}
		req.Amount = d
	}

	fh, err := c.FormFile(receiptField)
	if err != nil {
		// the receipt is optional
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errInvalidBody
	}
	// the multipart form owns the temp file; it is closed with the request
	c.Response().After(func() { _ = f.Close() })
	return &repaymentUC.Receipt{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	}, nil
}

func (h *RepaymentHandler) Approve(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "repayment_id")
	if err != nil {
		return writeError(c, err)
	}
	rp, l, err := h.uc.Approve(c.Request().Context(), p.UserID, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]any{"repayment": rp, "loan": l})
}

func (h *RepaymentHandler) Reject(c echo.Context) error {
	return h.withID(c, h.uc.Reject)
}

func (h *RepaymentHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "repayment_id")
	if err != nil {
		return writeError(c, err)
	}
	var out *repayment.Repayment
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

// Statement lists a loan's repayments with approved and pending totals.
func (h *RepaymentHandler) Statement(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	loanID, err := pathID(c, "loan_id")
	if err != nil {
		return writeError(c, err)
	}
	farmerID := p.UserID
	if p.Role == user.RoleAdmin {
		farmerID = ""
	}
	out, err := h.uc.Statement(c.Request().Context(), loanID, farmerID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *RepaymentHandler) withID(c echo.Context, fn func(ctx context.Context, callerID, id string) (*repayment.Repayment, error)) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "repayment_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := fn(c.Request().Context(), p.UserID, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *RepaymentHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	f := repayment.Filter{
		Status: repayment.Status(c.QueryParam("status")),
		LoanID: c.QueryParam("loan_id"),
		From:   from,
		To:     to,
	}
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
