package repayment

import (
	"context"

	loanDomain "agrolend-backend/internal/domain/loan"
	domain "agrolend-backend/internal/domain/repayment"
	"agrolend-backend/internal/domain/uow"

	"github.com/shopspring/decimal"
)

// Statement is a loan with every repayment filed against it.
type Statement struct {
	Loan         *loanDomain.Loan   `json:"loan"`
	Repayments   []domain.Repayment `json:"repayments"`
	TotalPaid    decimal.Decimal    `json:"total_paid"`
	TotalPending decimal.Decimal    `json:"total_pending"`
}

// Statement reads the loan, its repayments and the approved total in one transaction.
// An empty farmerID reads any farmer's loan.
func (u *Usecase) Statement(ctx context.Context, loanID, farmerID string) (*Statement, error) {
	var out Statement
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if farmerID == "" {
			out.Loan, err = r.Loans.GetByID(ctx, loanID)
		} else {
			out.Loan, err = r.Loans.GetByIDForFarmer(ctx, loanID, farmerID)
		}
		if err != nil {
			return err
		}
		if out.Repayments, err = r.Repayments.List(ctx, domain.Filter{LoanID: loanID}); err != nil {
			return err
		}
		out.TotalPaid, err = r.Repayments.SumApproved(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, txError(err)
	}

	out.TotalPending = decimal.Zero
	for _, rp := range out.Repayments {
		if rp.Status == domain.StatusPending {
			out.TotalPending = out.TotalPending.Add(rp.Amount)
		}
	}
	if out.Repayments == nil {
		out.Repayments = []domain.Repayment{}
	}
	return &out, nil
}
