package loanmock

import (
	"context"
	"errors"
	"time"

	domain "agrolend-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

var ErrUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
// Reads without a function return ErrUnimplemented; writes succeed.
type Repo struct {
	CreateFn           func(ctx context.Context, l *domain.Loan) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForFarmerFn func(ctx context.Context, id, farmerID string) (*domain.Loan, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Loan, error)
	ListFn             func(ctx context.Context, f domain.Filter) ([]domain.Loan, error)
	ListDueFn          func(ctx context.Context, before time.Time) ([]domain.Loan, error)
	UpdatePendingFn    func(ctx context.Context, l *domain.Loan) (bool, error)
	DeletePendingFn    func(ctx context.Context, id, farmerID string) (bool, error)
	ApproveFn          func(ctx context.Context, id, adminID string, due, at time.Time) (bool, error)
	RejectFn           func(ctx context.Context, id, adminID string, at time.Time) (bool, error)
	ApplyBalanceFn     func(ctx context.Context, id string, expected, remaining decimal.Decimal, status domain.Status) (bool, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) GetByIDForFarmer(ctx context.Context, id, farmerID string) (*domain.Loan, error) {
	if m.GetByIDForFarmerFn != nil {
		return m.GetByIDForFarmerFn(ctx, id, farmerID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) ListDue(ctx context.Context, before time.Time) ([]domain.Loan, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, before)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) UpdatePending(ctx context.Context, l *domain.Loan) (bool, error) {
	if m.UpdatePendingFn != nil {
		return m.UpdatePendingFn(ctx, l)
	}
	return true, nil
}

func (m *Repo) DeletePending(ctx context.Context, id, farmerID string) (bool, error) {
	if m.DeletePendingFn != nil {
		return m.DeletePendingFn(ctx, id, farmerID)
	}
	return true, nil
}

func (m *Repo) Approve(ctx context.Context, id, adminID string, due, at time.Time) (bool, error) {
	if m.ApproveFn != nil {
		return m.ApproveFn(ctx, id, adminID, due, at)
	}
	return true, nil
}

func (m *Repo) Reject(ctx context.Context, id, adminID string, at time.Time) (bool, error) {
	if m.RejectFn != nil {
		return m.RejectFn(ctx, id, adminID, at)
	}
	return true, nil
}

func (m *Repo) ApplyBalance(ctx context.Context, id string, expected, remaining decimal.Decimal, status domain.Status) (bool, error) {
	if m.ApplyBalanceFn != nil {
		return m.ApplyBalanceFn(ctx, id, expected, remaining, status)
	}
	return true, nil
}
