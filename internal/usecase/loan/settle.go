package loan

import (
	"context"

	domain "agrolend-backend/internal/domain/loan"
	"agrolend-backend/pkg/apperr"

	"github.com/shopspring/decimal"
)

// Settle reduces the balance of a loan the caller already locked, closing it at zero.
// Repayment approval calls it with transaction-bound repositories.
// The write only lands if the stored balance still equals l.AmountRemaining.
// On success l holds the new balance and status.
func Settle(ctx context.Context, repo domain.Repository, l *domain.Loan, amount decimal.Decimal) error {
	switch l.Status {
	case domain.StatusApproved:
	case domain.StatusRepaid:
		return apperr.InvalidState(apperr.CodeLoanRepaid, "loan is already repaid")
	default:
		return apperr.InvalidState(apperr.CodeLoanNotApproved, "loan is "+string(l.Status)+"; only approved loans take repayments")
	}
	if !amount.IsPositive() {
		return apperr.Validation(apperr.CodeInvalidAmount, "repayment amount must be positive")
	}

	remaining, status := l.Settle(amount)
	ok, err := repo.ApplyBalance(ctx, l.ID, l.AmountRemaining, remaining, status)
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return apperr.Conflict(apperr.CodeBalanceChanged, "loan balance changed concurrently; retry")
	}
	l.AmountRemaining = remaining
	l.Status = status
	return nil
}
