package repaymentmock

import (
	"context"
	"errors"
	"time"

	domain "agrolend-backend/internal/domain/repayment"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

var ErrUnimplemented = errors.New("repaymentmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, r *domain.Repayment) error
	GetByIDFn      func(ctx context.Context, id string) (*domain.Repayment, error)
	ListFn         func(ctx context.Context, f domain.Filter) ([]domain.Repayment, error)
	SumApprovedFn  func(ctx context.Context, loanID string) (decimal.Decimal, error)
	MarkApprovedFn func(ctx context.Context, id, adminID string, at time.Time) (bool, error)
	MarkRejectedFn func(ctx context.Context, id, adminID string, at time.Time) (bool, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Repayment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Repayment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Repayment, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) SumApproved(ctx context.Context, loanID string) (decimal.Decimal, error) {
	if m.SumApprovedFn != nil {
		return m.SumApprovedFn(ctx, loanID)
	}
	return decimal.Zero, ErrUnimplemented
}

func (m *Repo) MarkApproved(ctx context.Context, id, adminID string, at time.Time) (bool, error) {
	if m.MarkApprovedFn != nil {
		return m.MarkApprovedFn(ctx, id, adminID, at)
	}
	return true, nil
}

func (m *Repo) MarkRejected(ctx context.Context, id, adminID string, at time.Time) (bool, error) {
	if m.MarkRejectedFn != nil {
		return m.MarkRejectedFn(ctx, id, adminID, at)
	}
	return true, nil
}
