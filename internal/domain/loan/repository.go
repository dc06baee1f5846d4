package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id string) (*Loan, error)
	GetByIDForFarmer(ctx context.Context, id, farmerID string) (*Loan, error)
	// GetByIDForUpdate locks the row for the rest of the transaction where supported.
	GetByIDForUpdate(ctx context.Context, id string) (*Loan, error)
	List(ctx context.Context, f Filter) ([]Loan, error)
	// ListDue returns approved loans with an outstanding balance due before the given time.
	ListDue(ctx context.Context, before time.Time) ([]Loan, error)

	// Conditional writes: each reports false when the row was not in the expected state.
	UpdatePending(ctx context.Context, l *Loan) (bool, error)
	DeletePending(ctx context.Context, id, farmerID string) (bool, error)
	Approve(ctx context.Context, id, adminID string, due, at time.Time) (bool, error)
	Reject(ctx context.Context, id, adminID string, at time.Time) (bool, error)
	ApplyBalance(ctx context.Context, id string, expected, remaining decimal.Decimal, status Status) (bool, error)
}
