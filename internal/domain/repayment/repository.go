package repayment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, r *Repayment) error
	GetByID(ctx context.Context, id string) (*Repayment, error)
	List(ctx context.Context, f Filter) ([]Repayment, error)
	SumApproved(ctx context.Context, loanID string) (decimal.Decimal, error)
	// MarkApproved and MarkRejected only move a pending repayment.
	MarkApproved(ctx context.Context, id, adminID string, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, id, adminID string, at time.Time) (bool, error)
}
