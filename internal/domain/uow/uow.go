package uow

import (
	"context"

	"agrolend-backend/internal/domain/harvest"
	"agrolend-backend/internal/domain/loan"
	"agrolend-backend/internal/domain/repayment"
)

// Repos are bound to the same transaction.
type Repos struct {
	Harvests   harvest.Repository
	Loans      loan.Repository
	Repayments repayment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
